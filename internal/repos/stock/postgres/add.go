package stock

import (
	"database/sql"
	"fmt"
)

// Add appends contents as new unsold units, preserving their order.
func (r *stockRepo) Add(tx *sql.Tx, productID string, contents []string) (int, error) {
	if len(contents) == 0 {
		return 0, nil
	}

	stmt, err := tx.Prepare(`INSERT INTO product_stock (product_id, content) VALUES ($1, $2)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert stock: %w", err)
	}
	defer stmt.Close()

	for i, c := range contents {
		_, err = stmt.Exec(productID, c)
		if err != nil {
			return i, fmt.Errorf("insert stock: %w", err)
		}
	}

	return len(contents), nil
}

func (r *stockRepo) ReplaceUnsold(tx *sql.Tx, productID string, contents []string) error {
	_, err := tx.Exec(`
		DELETE FROM product_stock
		WHERE product_id = $1
		  AND NOT is_sold
	`, productID)
	if err != nil {
		return fmt.Errorf("delete unsold: %w", err)
	}

	_, err = r.Add(tx, productID, contents)
	if err != nil {
		return err
	}

	return nil
}
