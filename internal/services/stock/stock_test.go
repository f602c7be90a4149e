package stock

import (
	"testing"

	"github.com/fastprodman/storefront/internal/infra/pgtestutil"
	"github.com/fastprodman/storefront/internal/repos/products"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{name: "empty", lines: nil, want: []string{}},
		{name: "exact_triplets", lines: []string{"a", "b", "c", "d", "e", "f"}, want: []string{"a\nb\nc", "d\ne\nf"}},
		{name: "short_tail", lines: []string{"a", "b", "c", "d"}, want: []string{"a\nb\nc", "d"}},
		{name: "trims_lines", lines: []string{"  a ", "\tb", "c\r"}, want: []string{"a\nb\nc"}},
		{name: "blank_unit_dropped", lines: []string{"a", "b", "c", " ", "", " "}, want: []string{"a\nb\nc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GroupLines(tt.lines))
		})
	}
}

func TestService_AddAndReplace(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	pgtestutil.SeedProduct(t, db, "rockstar", "0.60", true)
	svc := New(db)
	ctx := t.Context()

	n, err := svc.Add(ctx, "rockstar", []string{"l1", "p1", "r1", "l2", "p2", "r2"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = svc.Add(ctx, "rockstar", []string{" ", ""})
	require.ErrorIs(t, err, ErrNoStockItems)

	_, err = svc.Add(ctx, "missing", []string{"x"})
	require.ErrorIs(t, err, products.ErrProductNotFound)

	unsold, err := svc.ListUnsold(ctx, "rockstar")
	require.NoError(t, err)
	assert.Equal(t, []string{"l1\np1\nr1", "l2\np2\nr2"}, unsold)

	require.NoError(t, svc.Replace(ctx, "rockstar", []string{"n1", "n2", "n3"}))
	unsold, err = svc.ListUnsold(ctx, "rockstar")
	require.NoError(t, err)
	assert.Equal(t, []string{"n1\nn2\nn3"}, unsold)

	require.NoError(t, svc.Replace(ctx, "rockstar", nil))
	unsold, err = svc.ListUnsold(ctx, "rockstar")
	require.NoError(t, err)
	assert.Empty(t, unsold)
}

func TestService_ListProducts(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	pgtestutil.SeedProduct(t, db, "rockstar", "0.60", true)
	pgtestutil.SeedStock(t, db, "rockstar", "A", "B")

	list, err := New(db).ListProducts(t.Context())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].StockCount)
}
