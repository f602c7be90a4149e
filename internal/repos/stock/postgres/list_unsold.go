package stock

import (
	"context"
	"fmt"
)

func (r *stockRepo) ListUnsold(ctx context.Context, productID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT content
		FROM product_stock
		WHERE product_id = $1
		  AND NOT is_sold
		ORDER BY id
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("list unsold: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var content string

		err = rows.Scan(&content)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, content)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate stock: %w", err)
	}

	return out, nil
}
