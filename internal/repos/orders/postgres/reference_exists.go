package orders

import (
	"context"
	"fmt"
)

func (r *ordersRepo) ReferenceExists(ctx context.Context, carrier, reference string) (bool, error) {
	var exists bool

	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM topup_orders WHERE carrier = $1 AND sender_number = $2)
	`, carrier, reference).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check reference: %w", err)
	}

	return exists, nil
}
