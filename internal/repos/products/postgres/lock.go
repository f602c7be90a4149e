package products

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/storefront/internal/repos/products"
)

func (r *productsRepo) Lock(tx *sql.Tx, productID string) (products.Product, error) {
	var p products.Product

	err := tx.QueryRow(`
		SELECT id, title, category, price, COALESCE(image, ''), COALESCE(description, ''),
		       COALESCE(badge, ''), instant_delivery
		FROM products
		WHERE id = $1
		FOR UPDATE
	`, productID).Scan(&p.ID, &p.Title, &p.Category, &p.Price, &p.Image, &p.Description, &p.Badge, &p.InstantDelivery)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return products.Product{}, products.ErrProductNotFound
		}

		return products.Product{}, fmt.Errorf("lock product: %w", err)
	}

	return p, nil
}
