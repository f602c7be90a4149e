package purchases

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrPurchaseNotFound = errors.New("purchase not found")
	// ErrPurchaseNotPending means the purchase was already fulfilled and its details are final.
	ErrPurchaseNotPending = errors.New("purchase is not awaiting delivery")
)

type Status string

const (
	StatusCompleted  Status = "completed"
	StatusProcessing Status = "processing"
	StatusDelivered  Status = "delivered"
)

type Purchase struct {
	ID           int64
	DiscordID    string
	Username     string
	ProductID    string
	ProductTitle string
	// Price is the total charged for the whole quantity.
	Price        decimal.Decimal
	Quantity     int
	Status       Status
	OrderDetails string
	CreatedAt    time.Time
	DeliveredAt  *time.Time
}

type Purchases interface {
	Insert(tx *sql.Tx, p Purchase) (int64, error)
	ListAll(ctx context.Context) ([]Purchase, error)
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]Purchase, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	// Deliver stores the fulfilment details and returns the updated purchase.
	Deliver(ctx context.Context, purchaseID int64, details string) (Purchase, error)
}
