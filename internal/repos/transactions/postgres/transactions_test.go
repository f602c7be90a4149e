package transactions

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/fastprodman/storefront/internal/infra/pgtestutil"
	"github.com/fastprodman/storefront/internal/repos/transactions"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTransactions_Insert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		seed    func(t *testing.T, db *sql.DB)
		txn     transactions.Transaction
		wantErr error
	}{
		{
			name: "ok_insert",
			seed: func(t *testing.T, db *sql.DB) { pgtestutil.SeedUser(t, db, "u-1", "1.00") },
			txn: transactions.Transaction{
				ID: transactions.ID(transactions.KindTopUp, "ORD-1"), UserID: "u-1",
				Kind: transactions.KindTopUp, Amount: decimal.NewFromInt(10),
			},
		},
		{
			name: "duplicate_transaction",
			seed: func(t *testing.T, db *sql.DB) {
				pgtestutil.SeedUser(t, db, "u-2", "1.00")
				_, err := db.Exec(`INSERT INTO balance_transactions (transaction_id, discord_id, kind, amount) VALUES ($1, $2, $3, $4)`,
					"topup:ORD-DUP", "u-2", "topup", "10")
				require.NoError(t, err)
			},
			txn: transactions.Transaction{
				ID: "topup:ORD-DUP", UserID: "u-2", Kind: transactions.KindTopUp, Amount: decimal.NewFromInt(10),
			},
			wantErr: transactions.ErrDuplicateTransaction,
		},
		{
			name: "user_not_exist_fk_violation",
			seed: func(_ *testing.T, _ *sql.DB) {},
			txn: transactions.Transaction{
				ID: "purchase:1", UserID: "u-999", Kind: transactions.KindPurchase, Amount: decimal.NewFromInt(-1),
			},
			wantErr: &pgconn.PgError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			repo := New(db)
			tt.seed(t, db)

			tx, err := db.BeginTx(t.Context(), nil)
			require.NoError(t, err)
			defer func() { _ = tx.Rollback() }()

			err = repo.Insert(tx, tt.txn)

			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			var pgErr *pgconn.PgError
			if errors.As(tt.wantErr, &pgErr) {
				require.ErrorAs(t, err, &pgErr)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
