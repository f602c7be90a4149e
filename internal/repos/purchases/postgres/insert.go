package purchases

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/storefront/internal/repos/purchases"
)

func (r *purchasesRepo) Insert(tx *sql.Tx, p purchases.Purchase) (int64, error) {
	var id int64

	err := tx.QueryRow(`
		INSERT INTO purchases (discord_id, username, product_id, product_title, price, quantity, status, order_details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, p.DiscordID, p.Username, p.ProductID, p.ProductTitle, p.Price, p.Quantity, string(p.Status), p.OrderDetails).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert purchase: %w", err)
	}

	return id, nil
}
