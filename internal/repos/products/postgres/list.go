package products

import (
	"context"
	"fmt"

	"github.com/fastprodman/storefront/internal/repos/products"
)

func (r *productsRepo) ListWithStock(ctx context.Context) ([]products.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.title, p.category, p.price, COALESCE(p.image, ''), COALESCE(p.description, ''),
		       COALESCE(p.badge, ''), p.instant_delivery,
		       (SELECT COUNT(*) FROM product_stock ps WHERE ps.product_id = p.id AND NOT ps.is_sold)
		FROM products p
		ORDER BY p.category, p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]products.Product, 0)
	for rows.Next() {
		var p products.Product

		err = rows.Scan(&p.ID, &p.Title, &p.Category, &p.Price, &p.Image, &p.Description, &p.Badge,
			&p.InstantDelivery, &p.StockCount)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return out, nil
}
