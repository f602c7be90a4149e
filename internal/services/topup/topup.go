package topup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fastprodman/storefront/internal/infra/logging"
	"github.com/fastprodman/storefront/internal/infra/pgutils"
	"github.com/fastprodman/storefront/internal/infra/redislock"
	"github.com/fastprodman/storefront/internal/repos/notifications"
	"github.com/fastprodman/storefront/internal/repos/orders"
	pgorders "github.com/fastprodman/storefront/internal/repos/orders/postgres"
	"github.com/fastprodman/storefront/internal/repos/transactions"
	pgtransactions "github.com/fastprodman/storefront/internal/repos/transactions/postgres"
	"github.com/fastprodman/storefront/internal/repos/users"
	pgusers "github.com/fastprodman/storefront/internal/repos/users/postgres"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CarrierBinance is the only carrier whose payments can be verified automatically.
const CarrierBinance = "binance"

var (
	ErrVerificationFailed = errors.New("payment could not be verified")
	ErrInvalidOrder       = errors.New("invalid top-up order")
)

type Verifier interface {
	Verify(ctx context.Context, reference string, expected decimal.Decimal) bool
}

// ReferenceGuard keeps identical submissions from reaching the payment provider
// at the same time. The unique index on redeemed references stays authoritative.
type ReferenceGuard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type Notifier interface {
	Send(ctx context.Context, userID, title, message string, typ notifications.Type)
}

type Submission struct {
	UserID      string
	Username    string
	Amount      decimal.Decimal
	LocalAmount decimal.NullDecimal
	// Reference is the sender number or provider order id typed by the user.
	Reference string
	Carrier   string
}

type SubmitResult struct {
	OrderID      string
	AutoApproved bool
}

type Manager struct {
	db       *sql.DB
	users    users.Users
	orders   orders.Orders
	txns     transactions.Transactions
	verifier Verifier
	guard    ReferenceGuard
	notifier Notifier
	newID    func() string
}

func New(db *sql.DB, verifier Verifier, guard ReferenceGuard, notifier Notifier) *Manager {
	return &Manager{
		db:       db,
		users:    pgusers.New(db),
		orders:   pgorders.New(db),
		txns:     pgtransactions.New(db),
		verifier: verifier,
		guard:    guard,
		notifier: notifier,
		newID:    NewOrderID,
	}
}

// NewOrderID returns an id like "ORD-3F9A1C0B2".
func NewOrderID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")

	return "ORD-" + strings.ToUpper(raw[:9])
}

// wholeCents reports whether d fits the 2-place balance columns unchanged.
// A finer amount would be verified as sent but credited rounded.
func wholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

func referenceKey(carrier, ref string) string {
	return "topup:ref:" + carrier + ":" + ref
}

// Submit records a top-up request. Binance payments with a reference are verified
// and credited on the spot; everything else waits for an admin as a pending order.
func (m *Manager) Submit(ctx context.Context, s Submission) (SubmitResult, error) {
	s.Carrier = strings.ToLower(strings.TrimSpace(s.Carrier))
	s.Reference = strings.TrimSpace(s.Reference)

	if s.UserID == "" || s.Carrier == "" || !s.Amount.IsPositive() {
		return SubmitResult{}, ErrInvalidOrder
	}

	if !wholeCents(s.Amount) {
		return SubmitResult{}, fmt.Errorf("%w: amount %s has more than 2 decimal places", ErrInvalidOrder, s.Amount)
	}

	order := orders.Order{
		ID:           m.newID(),
		DiscordID:    s.UserID,
		Username:     s.Username,
		Amount:       s.Amount,
		LocalAmount:  s.LocalAmount,
		SenderNumber: s.Reference,
		Carrier:      s.Carrier,
		Status:       orders.StatusPending,
	}

	log := logging.FromContext(ctx).With("order_id", order.ID, "carrier", order.Carrier, "user_id", order.DiscordID)

	if s.Carrier != CarrierBinance || s.Reference == "" {
		err := pgutils.WithTx(ctx, m.db, func(tx *sql.Tx) error {
			return m.orders.Insert(tx, order)
		})
		if err != nil {
			return SubmitResult{}, fmt.Errorf("insert pending order: %w", err)
		}

		log.Info("top-up order queued for review")

		return SubmitResult{OrderID: order.ID}, nil
	}

	err := m.autoApprove(ctx, order)
	if err != nil {
		return SubmitResult{}, err
	}

	log.Info("top-up order auto-approved", "amount", order.Amount.StringFixed(2))

	m.notifier.Send(ctx, order.DiscordID, "شحن رصيد تلقائي",
		fmt.Sprintf("تم تفعيل طلب شحن الرصيد تلقائياً بقيمة %s USDT", order.Amount.String()),
		notifications.TypeSuccess)

	return SubmitResult{OrderID: order.ID, AutoApproved: true}, nil
}

func (m *Manager) autoApprove(ctx context.Context, order orders.Order) error {
	log := logging.FromContext(ctx)

	// 1) Cheap early rejection for references that were already redeemed.
	used, err := m.orders.ReferenceExists(ctx, order.Carrier, order.SenderNumber)
	if err != nil {
		return fmt.Errorf("check reference: %w", err)
	}
	if used {
		return orders.ErrDuplicateReference
	}

	// 2) One in-flight verification per reference.
	release, err := m.guard.Acquire(ctx, referenceKey(order.Carrier, order.SenderNumber))
	switch {
	case errors.Is(err, redislock.ErrNotAcquired):
		return orders.ErrDuplicateReference
	case err != nil:
		log.Warn("reference guard unavailable, relying on unique index", "error", err)
	default:
		defer release()
	}

	// 3) Provider check. Fail closed.
	if !m.verifier.Verify(ctx, order.SenderNumber, order.Amount) {
		return ErrVerificationFailed
	}

	// 4) Order, ledger entry and credit commit together.
	order.Status = orders.StatusApproved

	err = pgutils.WithTx(ctx, m.db, func(tx *sql.Tx) error {
		err := m.users.Ensure(tx, users.User{DiscordID: order.DiscordID, Username: order.Username})
		if err != nil {
			return fmt.Errorf("ensure user: %w", err)
		}

		err = m.orders.Insert(tx, order)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		return m.credit(tx, order)
	})
	if err != nil {
		return fmt.Errorf("auto-approve: %w", err)
	}

	return nil
}

func (m *Manager) credit(tx *sql.Tx, order orders.Order) error {
	err := m.txns.Insert(tx, transactions.Transaction{
		ID:     transactions.ID(transactions.KindTopUp, order.ID),
		UserID: order.DiscordID,
		Kind:   transactions.KindTopUp,
		Amount: order.Amount,
	})
	if err != nil {
		if errors.Is(err, transactions.ErrDuplicateTransaction) {
			return fmt.Errorf("order already credited: %w", orders.ErrOrderNotPending)
		}

		return fmt.Errorf("insert transaction: %w", err)
	}

	err = m.users.IncreaseBalance(tx, order.DiscordID, order.Amount)
	if err != nil {
		return fmt.Errorf("increase balance: %w", err)
	}

	return nil
}
