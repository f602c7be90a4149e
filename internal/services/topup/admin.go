package topup

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/storefront/internal/infra/logging"
	"github.com/fastprodman/storefront/internal/infra/pgutils"
	"github.com/fastprodman/storefront/internal/repos/notifications"
	"github.com/fastprodman/storefront/internal/repos/orders"
	"github.com/fastprodman/storefront/internal/repos/users"
	"github.com/shopspring/decimal"
)

// Approve credits a pending order once. Any later call fails with orders.ErrOrderNotPending.
func (m *Manager) Approve(ctx context.Context, orderID string) (decimal.Decimal, error) {
	var order orders.Order

	err := pgutils.WithTx(ctx, m.db, func(tx *sql.Tx) error {
		var err error

		order, err = m.lockPending(tx, orderID)
		if err != nil {
			return err
		}

		err = m.users.Ensure(tx, users.User{DiscordID: order.DiscordID, Username: order.Username})
		if err != nil {
			return fmt.Errorf("ensure user: %w", err)
		}

		err = m.orders.SetStatus(tx, order.ID, orders.StatusApproved)
		if err != nil {
			return fmt.Errorf("set status: %w", err)
		}

		return m.credit(tx, order)
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("approve order: %w", err)
	}

	logging.FromContext(ctx).Info("top-up order approved", "order_id", order.ID, "amount", order.Amount.StringFixed(2))

	m.notifier.Send(ctx, order.DiscordID, "تم شحن الرصيد",
		fmt.Sprintf("تم إضافة مبلغ $%s لمحفظتك بنجاح! رقم الطلب: %s", order.Amount.String(), order.ID),
		notifications.TypeSuccess)

	return order.Amount, nil
}

func (m *Manager) Reject(ctx context.Context, orderID string) error {
	var order orders.Order

	err := pgutils.WithTx(ctx, m.db, func(tx *sql.Tx) error {
		var err error

		order, err = m.lockPending(tx, orderID)
		if err != nil {
			return err
		}

		err = m.orders.SetStatus(tx, order.ID, orders.StatusRejected)
		if err != nil {
			return fmt.Errorf("set status: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("reject order: %w", err)
	}

	logging.FromContext(ctx).Info("top-up order rejected", "order_id", order.ID)

	m.notifier.Send(ctx, order.DiscordID, "تم رفض الطلب",
		fmt.Sprintf("عذراً، تم رفض طلبك رقم: %s. يرجى التواصل مع الدعم للمزيد من التفاصيل.", order.ID),
		notifications.TypeError)

	return nil
}

func (m *Manager) List(ctx context.Context) ([]orders.Order, error) {
	out, err := m.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return out, nil
}

func (m *Manager) lockPending(tx *sql.Tx, orderID string) (orders.Order, error) {
	order, err := m.orders.LockByID(tx, orderID)
	if err != nil {
		return orders.Order{}, fmt.Errorf("lock order: %w", err)
	}

	if order.Status != orders.StatusPending {
		return orders.Order{}, fmt.Errorf("order %s is %s: %w", order.ID, order.Status, orders.ErrOrderNotPending)
	}

	return order, nil
}
