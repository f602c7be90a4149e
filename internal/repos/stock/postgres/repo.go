package stock

import (
	"database/sql"

	"github.com/fastprodman/storefront/internal/repos/stock"
)

var _ stock.Stock = (*stockRepo)(nil)

type stockRepo struct{ db *sql.DB }

func New(db *sql.DB) *stockRepo {
	return &stockRepo{db: db}
}
