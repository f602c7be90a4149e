package users

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fastprodman/storefront/internal/infra/pgtestutil"
	"github.com/fastprodman/storefront/internal/repos/users"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_DecreaseBalance_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		seedBalance   string // empty -> no user
		userID        string
		amount        string
		wantBalance   string
		wantErr       error
		checkFinalBal bool
	}{
		{
			name:          "sufficient_funds_decrease_from_positive",
			seedBalance:   "10.00",
			userID:        "u-201",
			amount:        "2.50",
			wantBalance:   "7.50",
			checkFinalBal: true,
		},
		{
			name:          "sufficient_funds_exact_to_zero",
			seedBalance:   "3.00",
			userID:        "u-202",
			amount:        "3.00",
			wantBalance:   "0",
			checkFinalBal: true,
		},
		{
			name:          "insufficient_funds_balance_unchanged",
			seedBalance:   "2.00",
			userID:        "u-203",
			amount:        "3.00",
			wantBalance:   "2.00",
			wantErr:       users.ErrInsufficientFunds,
			checkFinalBal: true,
		},
		{
			name:    "user_missing_treated_as_insufficient",
			userID:  "u-missing",
			amount:  "1.00",
			wantErr: users.ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			if tt.seedBalance != "" {
				pgtestutil.SeedUser(t, db, tt.userID, tt.seedBalance)
			}

			repo := New(db)

			ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
			defer cancel()

			tx, err := db.BeginTx(ctx, nil)
			require.NoError(t, err)
			defer func() { _ = tx.Rollback() }()

			err = repo.DecreaseBalance(tx, tt.userID, decimal.RequireFromString(tt.amount))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.NoError(t, tx.Commit())
			}

			if tt.checkFinalBal {
				got, err := repo.GetBalance(ctx, tt.userID)
				require.NoError(t, err)
				assert.True(t, decimal.RequireFromString(tt.wantBalance).Equal(got), "balance: want %s, got %s", tt.wantBalance, got)
			}
		})
	}
}

func TestUsers_DecreaseBalance_ConcurrentGuard(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	pgtestutil.SeedUser(t, db, "u-1", "10.00")

	var wg sync.WaitGroup
	var mu sync.Mutex
	success, insufficient := 0, 0

	worker := func(name string) {
		defer wg.Done()

		tx, err := db.BeginTx(context.Background(), nil)
		if err != nil {
			t.Errorf("[%s] begin tx: %v", name, err)
			return
		}
		defer func() { _ = tx.Rollback() }()

		_, err = repo.LockAndGetBalance(tx, "u-1")
		if err != nil {
			t.Errorf("[%s] lock balance: %v", name, err)
			return
		}

		err = repo.DecreaseBalance(tx, "u-1", decimal.NewFromInt(10))
		switch {
		case err == nil:
			mu.Lock()
			success++
			mu.Unlock()

			err = tx.Commit()
			if err != nil {
				t.Errorf("[%s] commit: %v", name, err)
			}
		case errors.Is(err, users.ErrInsufficientFunds):
			mu.Lock()
			insufficient++
			mu.Unlock()
		default:
			t.Errorf("[%s] unexpected error: %v", name, err)
		}
	}

	wg.Add(2)
	go worker("A")
	go worker("B")
	wg.Wait()

	assert.Equal(t, 1, success)
	assert.Equal(t, 1, insufficient)
}

func TestUsers_SetBalance(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	pgtestutil.SeedUser(t, db, "u-set", "4.00")

	run := func(userID, amount string) error {
		tx, err := db.BeginTx(t.Context(), nil)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback() }()

		err = repo.SetBalance(tx, userID, decimal.RequireFromString(amount))
		if err != nil {
			return err
		}

		return tx.Commit()
	}

	require.NoError(t, run("u-set", "12.34"))
	got, err := repo.GetBalance(t.Context(), "u-set")
	require.NoError(t, err)
	assert.Equal(t, "12.34", got.StringFixed(2))

	require.ErrorIs(t, run("u-set", "-1"), users.ErrInsufficientFunds)
	require.ErrorIs(t, run("u-nobody", "1"), users.ErrUserNotFound)
}

