package stock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fastprodman/storefront/internal/infra/pgutils"
	"github.com/fastprodman/storefront/internal/repos/products"
	pgproducts "github.com/fastprodman/storefront/internal/repos/products/postgres"
	"github.com/fastprodman/storefront/internal/repos/stock"
	pgstock "github.com/fastprodman/storefront/internal/repos/stock/postgres"
)

// LinesPerUnit is how many uploaded lines make up one sellable unit (e.g. login, password, recovery).
const LinesPerUnit = 3

var ErrNoStockItems = errors.New("no stock items")

type Service struct {
	db       *sql.DB
	products products.Products
	stock    stock.Stock
}

func New(db *sql.DB) *Service {
	return &Service{
		db:       db,
		products: pgproducts.New(db),
		stock:    pgstock.New(db),
	}
}

// GroupLines joins consecutive lines into units of LinesPerUnit.
// Lines are trimmed, the last unit may be shorter and blank units are dropped.
func GroupLines(lines []string) []string {
	out := make([]string, 0, (len(lines)+LinesPerUnit-1)/LinesPerUnit)

	for i := 0; i < len(lines); i += LinesPerUnit {
		end := min(i+LinesPerUnit, len(lines))

		parts := make([]string, 0, end-i)
		for _, l := range lines[i:end] {
			parts = append(parts, strings.TrimSpace(l))
		}

		unit := strings.Join(parts, "\n")
		if strings.TrimSpace(unit) == "" {
			continue
		}
		out = append(out, unit)
	}

	return out
}

// ListProducts returns the catalog with unsold stock counts.
func (s *Service) ListProducts(ctx context.Context) ([]products.Product, error) {
	out, err := s.products.ListWithStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return out, nil
}

func (s *Service) ListUnsold(ctx context.Context, productID string) ([]string, error) {
	out, err := s.stock.ListUnsold(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list unsold: %w", err)
	}

	return out, nil
}

// Add appends grouped lines to the product's stock and returns the number of units stored.
func (s *Service) Add(ctx context.Context, productID string, lines []string) (int, error) {
	units := GroupLines(lines)
	if len(units) == 0 {
		return 0, ErrNoStockItems
	}

	var added int

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := s.products.Lock(tx, productID)
		if err != nil {
			return fmt.Errorf("lock product: %w", err)
		}

		added, err = s.stock.Add(tx, productID, units)
		if err != nil {
			return fmt.Errorf("add stock: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("add stock: %w", err)
	}

	return added, nil
}

// Replace swaps every unsold unit of the product for the grouped lines in one transaction.
// Sold units are kept. An empty list clears the unsold stock.
func (s *Service) Replace(ctx context.Context, productID string, lines []string) error {
	units := GroupLines(lines)

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := s.products.Lock(tx, productID)
		if err != nil {
			return fmt.Errorf("lock product: %w", err)
		}

		err = s.stock.ReplaceUnsold(tx, productID, units)
		if err != nil {
			return fmt.Errorf("replace unsold: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("replace stock: %w", err)
	}

	return nil
}
