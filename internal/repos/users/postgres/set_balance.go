package users

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/storefront/internal/infra/pgutils"
	"github.com/fastprodman/storefront/internal/repos/users"
	"github.com/shopspring/decimal"
)

func (r *usersRepo) SetBalance(tx *sql.Tx, userID string, amount decimal.Decimal) error {
	res, err := tx.Exec(`
		UPDATE users
		SET balance = $2
		WHERE discord_id = $1
	`, userID, amount)
	if err != nil {
		if pgutils.IsCheckViolation(err, "users_balance_non_negative") {
			return users.ErrInsufficientFunds
		}

		return fmt.Errorf("set balance: %w", err)
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
