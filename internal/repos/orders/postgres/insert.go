package orders

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/storefront/internal/infra/pgutils"
	"github.com/fastprodman/storefront/internal/repos/orders"
)

func (r *ordersRepo) Insert(tx *sql.Tx, o orders.Order) error {
	_, err := tx.Exec(`
		INSERT INTO topup_orders (id, discord_id, username, amount, local_amount, sender_number, carrier, status, decided_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, CASE WHEN $8 = 'pending' THEN NULL ELSE NOW() END)
	`, o.ID, o.DiscordID, o.Username, o.Amount, o.LocalAmount, o.SenderNumber, o.Carrier, string(o.Status))
	if err != nil {
		if pgutils.IsUniqueViolation(err, referenceConstraint) {
			return orders.ErrDuplicateReference
		}

		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}
