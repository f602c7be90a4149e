package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUserNotFound      = errors.New("user not found")
)

type User struct {
	DiscordID string
	Username  string
	Email     string
	Avatar    string
	Balance   decimal.Decimal
	CreatedAt time.Time
}

type Users interface {
	Exists(tx *sql.Tx, userID string) error
	Get(ctx context.Context, userID string) (User, error)
	List(ctx context.Context) ([]User, error)
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	LockAndGetBalance(tx *sql.Tx, userID string) (decimal.Decimal, error)
	// Ensure inserts the user when missing and leaves an existing row untouched.
	Ensure(tx *sql.Tx, u User) error
	IncreaseBalance(tx *sql.Tx, userID string, amount decimal.Decimal) error
	DecreaseBalance(tx *sql.Tx, userID string, amount decimal.Decimal) error
	SetBalance(tx *sql.Tx, userID string, amount decimal.Decimal) error
}
