package users

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/storefront/internal/repos/users"
	"github.com/shopspring/decimal"
)

// DecreaseBalance debits amount only when the balance covers it.
// A missing user is reported as ErrInsufficientFunds as well.
func (r *usersRepo) DecreaseBalance(tx *sql.Tx, userID string, amount decimal.Decimal) error {
	res, err := tx.Exec(`
		UPDATE users
		SET balance = balance - $2
		WHERE discord_id = $1
		  AND balance >= $2
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("decrease balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return users.ErrInsufficientFunds
	}

	return nil
}
