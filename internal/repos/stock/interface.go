package stock

import (
	"context"
	"database/sql"
	"errors"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// Stock is the allocator over product_stock rows.
// Callers must hold the product row lock (see products.Products.Lock) before
// calling Claim or ReplaceUnsold so that writers for one product are serialized.
type Stock interface {
	// Claim marks the qty oldest unsold units sold and returns their contents in order.
	// It writes nothing and returns ErrInsufficientStock when fewer than qty are available.
	Claim(tx *sql.Tx, productID string, qty int) ([]string, error)
	ListUnsold(ctx context.Context, productID string) ([]string, error)
	Add(tx *sql.Tx, productID string, contents []string) (int, error)
	ReplaceUnsold(tx *sql.Tx, productID string, contents []string) error
}
