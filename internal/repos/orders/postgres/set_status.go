package orders

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/storefront/internal/repos/orders"
)

func (r *ordersRepo) SetStatus(tx *sql.Tx, orderID string, status orders.Status) error {
	res, err := tx.Exec(`
		UPDATE topup_orders
		SET status = $2, decided_at = NOW()
		WHERE id = $1
		  AND status = 'pending'
	`, orderID, string(status))
	if err != nil {
		return fmt.Errorf("set order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return orders.ErrOrderNotPending
	}

	return nil
}
