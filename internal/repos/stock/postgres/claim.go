package stock

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/storefront/internal/repos/stock"
)

func (r *stockRepo) Claim(tx *sql.Tx, productID string, qty int) ([]string, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("claim: invalid quantity %d", qty)
	}

	rows, err := tx.Query(`
		SELECT id, content
		FROM product_stock
		WHERE product_id = $1
		  AND NOT is_sold
		ORDER BY id
		LIMIT $2
	`, productID, qty)
	if err != nil {
		return nil, fmt.Errorf("select unsold: %w", err)
	}

	ids := make([]int64, 0, qty)
	contents := make([]string, 0, qty)

	for rows.Next() {
		var (
			id      int64
			content string
		)

		err = rows.Scan(&id, &content)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		ids = append(ids, id)
		contents = append(contents, content)
	}

	err = rows.Err()
	_ = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("iterate stock: %w", err)
	}

	if len(ids) < qty {
		return nil, stock.ErrInsufficientStock
	}

	res, err := tx.Exec(`
		UPDATE product_stock
		SET is_sold = TRUE, sold_at = NOW()
		WHERE id = ANY($1)
		  AND NOT is_sold
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("mark sold: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}

	// Only possible when a writer skipped the product lock.
	if affected != int64(len(ids)) {
		return nil, stock.ErrInsufficientStock
	}

	return contents, nil
}
