package products

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrProductNotFound = errors.New("product not found")

type Product struct {
	ID              string
	Title           string
	Category        string
	Price           decimal.Decimal
	Image           string
	Description     string
	Badge           string
	InstantDelivery bool
	// StockCount is the number of unsold stock units; only filled by ListWithStock.
	StockCount int
}

type Products interface {
	// Lock reads the product and holds its row lock until tx ends.
	// Stock claims and stock replacement for one product serialize on this lock.
	Lock(tx *sql.Tx, productID string) (Product, error)
	ListWithStock(ctx context.Context) ([]Product, error)
}
