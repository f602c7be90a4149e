package transactions

import (
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrDuplicateTransaction = errors.New("duplicate transaction")

type Kind string

const (
	KindPurchase Kind = "purchase"
	KindTopUp    Kind = "topup"
	KindAdjust   Kind = "adjust"
)

// Transaction is one ledger entry. Amount is signed: debits are negative.
type Transaction struct {
	ID     string
	UserID string
	Kind   Kind
	Amount decimal.Decimal
}

// ID builds the idempotency key for a ledger entry, e.g. "topup:ORD-1A2B3C4D5".
func ID(kind Kind, ref string) string {
	return string(kind) + ":" + ref
}

type Transactions interface {
	Insert(tx *sql.Tx, t Transaction) error
}
