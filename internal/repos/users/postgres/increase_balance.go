package users

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/storefront/internal/repos/users"
	"github.com/shopspring/decimal"
)

func (r *usersRepo) IncreaseBalance(tx *sql.Tx, userID string, amount decimal.Decimal) error {
	res, err := tx.Exec(`
		UPDATE users
		SET balance = balance + $2
		WHERE discord_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("increase balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return users.ErrUserNotFound
	}

	return nil
}
