package transactions

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/storefront/internal/infra/pgutils"
	"github.com/fastprodman/storefront/internal/repos/transactions"
)

var _ transactions.Transactions = (*transactionsRepo)(nil)

const transactionIDConstraint = "balance_transactions_transaction_id_key"

type transactionsRepo struct{ db *sql.DB }

func New(db *sql.DB) *transactionsRepo {
	return &transactionsRepo{db: db}
}

func (r *transactionsRepo) Insert(tx *sql.Tx, t transactions.Transaction) error {
	_, err := tx.Exec(`
		INSERT INTO balance_transactions (transaction_id, discord_id, kind, amount)
		VALUES ($1, $2, $3, $4)
	`, t.ID, t.UserID, string(t.Kind), t.Amount)
	if err != nil {
		if pgutils.IsUniqueViolation(err, transactionIDConstraint) {
			return transactions.ErrDuplicateTransaction
		}

		return fmt.Errorf("insert transaction: %w", err)
	}

	return nil
}
