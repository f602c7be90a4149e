package balance

import (
	"errors"

	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionSet      Action = "set"
	ActionAdd      Action = "add"
	ActionSubtract Action = "subtract"
)

// Adjustment is a manual balance change made by an admin.
type Adjustment struct {
	UserID string
	Amount decimal.Decimal
	Action Action
}

type Stats struct {
	Balance      decimal.Decimal
	TotalOrders  int
	TotalReviews int
	Status       string
}

var (
	ErrInvalidAction = errors.New("invalid action")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrMissingUserID = errors.New("user id is required")
)
