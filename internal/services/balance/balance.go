package balance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/storefront/internal/infra/logging"
	"github.com/fastprodman/storefront/internal/infra/pgutils"
	"github.com/fastprodman/storefront/internal/repos/notifications"
	"github.com/fastprodman/storefront/internal/repos/purchases"
	pgpurchases "github.com/fastprodman/storefront/internal/repos/purchases/postgres"
	"github.com/fastprodman/storefront/internal/repos/transactions"
	pgtransactions "github.com/fastprodman/storefront/internal/repos/transactions/postgres"
	"github.com/fastprodman/storefront/internal/repos/users"
	pgusers "github.com/fastprodman/storefront/internal/repos/users/postgres"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Notifier interface {
	Send(ctx context.Context, userID, title, message string, typ notifications.Type)
}

type BalanceService struct {
	db        *sql.DB
	users     users.Users
	purchases purchases.Purchases
	txns      transactions.Transactions
	notifier  Notifier
}

func New(dbx *sql.DB, notifier Notifier) *BalanceService {
	return &BalanceService{
		db:        dbx,
		users:     pgusers.New(dbx),
		purchases: pgpurchases.New(dbx),
		txns:      pgtransactions.New(dbx),
		notifier:  notifier,
	}
}

// Adjust runs a manual balance change in a single DB transaction:
//
// 1) Ensure user exists.
// 2) Lock user row (FOR UPDATE).
// 3) Apply the action.
// 4) Insert the ledger entry with the signed delta.
func (s *BalanceService) Adjust(ctx context.Context, adj Adjustment) (decimal.Decimal, error) {
	err := validate(adj)
	if err != nil {
		return decimal.Zero, err
	}

	var newBalance decimal.Decimal

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		// 1) Ensure user exists
		err := s.users.Exists(tx, adj.UserID)
		if err != nil {
			return fmt.Errorf("check user exists: %w", err)
		}

		// 2) Lock user row
		balance, err := s.users.LockAndGetBalance(tx, adj.UserID)
		if err != nil {
			return fmt.Errorf("lock and get balance: %w", err)
		}

		// 3) Apply the effect
		switch adj.Action {
		case ActionAdd:
			err = s.users.IncreaseBalance(tx, adj.UserID, adj.Amount)
			if err != nil {
				return fmt.Errorf("increase balance: %w", err)
			}
			newBalance = balance.Add(adj.Amount)

		case ActionSubtract:
			// pre-check against locked balance
			if balance.LessThan(adj.Amount) {
				return fmt.Errorf("pre-check decrease: %w", users.ErrInsufficientFunds)
			}

			err = s.users.DecreaseBalance(tx, adj.UserID, adj.Amount)
			if err != nil {
				return fmt.Errorf("decrease balance: %w", err)
			}
			newBalance = balance.Sub(adj.Amount)

		case ActionSet:
			err = s.users.SetBalance(tx, adj.UserID, adj.Amount)
			if err != nil {
				return fmt.Errorf("set balance: %w", err)
			}
			newBalance = adj.Amount
		}

		// 4) Insert transaction record
		err = s.txns.Insert(tx, transactions.Transaction{
			ID:     transactions.ID(transactions.KindAdjust, uuid.NewString()),
			UserID: adj.UserID,
			Kind:   transactions.KindAdjust,
			Amount: newBalance.Sub(balance),
		})
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("adjust balance: %w", err)
	}

	logging.FromContext(ctx).Info("balance adjusted",
		"user_id", adj.UserID, "action", adj.Action, "amount", adj.Amount.StringFixed(2), "balance", newBalance.StringFixed(2))

	s.notifier.Send(ctx, adj.UserID, "تحديث الرصيد", adjustMessage(adj), notifications.TypeInfo)

	return newBalance, nil
}

func validate(adj Adjustment) error {
	if adj.UserID == "" {
		return ErrMissingUserID
	}

	switch adj.Action {
	case ActionAdd, ActionSubtract:
		if !adj.Amount.IsPositive() {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidAmount, adj.Action)
		}
	case ActionSet:
		if adj.Amount.IsNegative() {
			return fmt.Errorf("%w: balance cannot be negative", ErrInvalidAmount)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAction, adj.Action)
	}

	return nil
}

func adjustMessage(adj Adjustment) string {
	amount := adj.Amount.StringFixed(2)

	switch adj.Action {
	case ActionSet:
		return fmt.Sprintf("تم تعديل رصيدك ليصبح: $%s", amount)
	case ActionAdd:
		return fmt.Sprintf("تم إضافة $%s إلى رصيدك.", amount)
	default:
		return fmt.Sprintf("تم خصم $%s من رصيدك.", amount)
	}
}

// GetBalance returns the user's balance (no locks; suitable for the GET endpoint).
// Unknown users have a zero balance.
func (s *BalanceService) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	balance, err := s.users.GetBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return decimal.Zero, nil
		}

		return decimal.Zero, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

func (s *BalanceService) Stats(ctx context.Context, userID string) (Stats, error) {
	balance, err := s.users.GetBalance(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("get balance: %w", err)
	}

	total, err := s.purchases.CountByUser(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("count purchases: %w", err)
	}

	return Stats{Balance: balance, TotalOrders: total, Status: "Active"}, nil
}

// EnsureUser registers a user on first login and returns the stored row.
func (s *BalanceService) EnsureUser(ctx context.Context, u users.User) (users.User, error) {
	if u.DiscordID == "" {
		return users.User{}, ErrMissingUserID
	}

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.users.Ensure(tx, u)
	})
	if err != nil {
		return users.User{}, fmt.Errorf("ensure user: %w", err)
	}

	out, err := s.users.Get(ctx, u.DiscordID)
	if err != nil {
		return users.User{}, fmt.Errorf("get user: %w", err)
	}

	return out, nil
}

func (s *BalanceService) ListUsers(ctx context.Context) ([]users.User, error) {
	out, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return out, nil
}
