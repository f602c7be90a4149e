package users

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/storefront/internal/repos/users"
	"github.com/shopspring/decimal"
)

func (r *usersRepo) LockAndGetBalance(tx *sql.Tx, userID string) (decimal.Decimal, error) {
	var balance decimal.Decimal

	err := tx.QueryRow(`
		SELECT balance
		FROM users
		WHERE discord_id = $1
		FOR UPDATE
	`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, users.ErrUserNotFound
		}

		return decimal.Zero, fmt.Errorf("lock/get balance: %w", err)
	}

	return balance, nil
}
