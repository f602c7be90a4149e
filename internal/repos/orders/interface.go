package orders

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderNotPending    = errors.New("order is not pending")
	ErrDuplicateReference = errors.New("payment reference already used")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Order is a balance top-up request.
type Order struct {
	ID          string
	DiscordID   string
	Username    string
	Amount      decimal.Decimal
	LocalAmount decimal.NullDecimal
	// SenderNumber is the payment reference; empty when none was supplied.
	SenderNumber string
	Carrier      string
	Status       Status
	CreatedAt    time.Time
	DecidedAt    *time.Time
}

type Orders interface {
	// Insert fails with ErrDuplicateReference when the reference was already redeemed.
	Insert(tx *sql.Tx, o Order) error
	ReferenceExists(ctx context.Context, carrier, reference string) (bool, error)
	LockByID(tx *sql.Tx, orderID string) (Order, error)
	// SetStatus moves a pending order to status; ErrOrderNotPending otherwise.
	SetStatus(tx *sql.Tx, orderID string, status Status) error
	List(ctx context.Context) ([]Order, error)
}
