package orders

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/storefront/internal/repos/orders"
)

func (r *ordersRepo) LockByID(tx *sql.Tx, orderID string) (orders.Order, error) {
	o, err := scanOrder(tx.QueryRow(`
		SELECT `+orderColumns+`
		FROM topup_orders
		WHERE id = $1
		FOR UPDATE
	`, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return orders.Order{}, orders.ErrOrderNotFound
		}

		return orders.Order{}, fmt.Errorf("lock order: %w", err)
	}

	return o, nil
}
