package products

import (
	"database/sql"
	"testing"

	"github.com/fastprodman/storefront/internal/infra/pgtestutil"
	"github.com/fastprodman/storefront/internal/infra/pgutils"
	"github.com/fastprodman/storefront/internal/repos/products"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducts_Lock(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	pgtestutil.SeedProduct(t, db, "rockstar", "0.60", true)
	repo := New(db)

	var got products.Product
	err := pgutils.WithTx(t.Context(), db, func(tx *sql.Tx) error {
		var err error
		got, err = repo.Lock(tx, "rockstar")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "Rockstar", got.Title)
	assert.Equal(t, "0.60", got.Price.StringFixed(2))
	assert.True(t, got.InstantDelivery)

	err = pgutils.WithTx(t.Context(), db, func(tx *sql.Tx) error {
		_, err := repo.Lock(tx, "nope")
		return err
	})
	require.ErrorIs(t, err, products.ErrProductNotFound)
}

func TestProducts_ListWithStock_CountsUnsoldOnly(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	pgtestutil.SeedProduct(t, db, "alpha", "1.00", true)
	pgtestutil.SeedProduct(t, db, "beta", "2.00", false)
	pgtestutil.SeedStock(t, db, "alpha", "a1", "a2", "a3")

	_, err := db.Exec(`UPDATE product_stock SET is_sold = TRUE WHERE content = 'a1'`)
	require.NoError(t, err)

	list, err := New(db).ListWithStock(t.Context())
	require.NoError(t, err)

	counts := map[string]int{}
	for _, p := range list {
		counts[p.ID] = p.StockCount
	}
	assert.Equal(t, map[string]int{"alpha": 2, "beta": 0}, counts)
}
