package orders

import (
	"context"
	"fmt"

	"github.com/fastprodman/storefront/internal/repos/orders"
)

func (r *ordersRepo) List(ctx context.Context) ([]orders.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM topup_orders ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := make([]orders.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return out, nil
}
