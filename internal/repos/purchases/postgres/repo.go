package purchases

import (
	"database/sql"

	"github.com/fastprodman/storefront/internal/repos/purchases"
)

var _ purchases.Purchases = (*purchasesRepo)(nil)

type purchasesRepo struct{ db *sql.DB }

func New(db *sql.DB) *purchasesRepo {
	return &purchasesRepo{db: db}
}

const purchaseColumns = `
	id, discord_id, username, product_id, product_title, price, quantity,
	status, order_details, created_at, delivered_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPurchase(row rowScanner) (purchases.Purchase, error) {
	var (
		p           purchases.Purchase
		deliveredAt sql.NullTime
	)

	err := row.Scan(&p.ID, &p.DiscordID, &p.Username, &p.ProductID, &p.ProductTitle, &p.Price,
		&p.Quantity, &p.Status, &p.OrderDetails, &p.CreatedAt, &deliveredAt)
	if err != nil {
		return purchases.Purchase{}, err
	}

	if deliveredAt.Valid {
		p.DeliveredAt = &deliveredAt.Time
	}

	return p, nil
}
