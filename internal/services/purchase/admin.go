package purchase

import (
	"context"
	"fmt"

	"github.com/fastprodman/storefront/internal/repos/notifications"
	"github.com/fastprodman/storefront/internal/repos/purchases"
)

// Deliver fills in the details of a manually fulfilled purchase and tells the buyer.
func (m *Manager) Deliver(ctx context.Context, purchaseID int64, details string) error {
	p, err := m.purchases.Deliver(ctx, purchaseID, details)
	if err != nil {
		return fmt.Errorf("deliver purchase: %w", err)
	}

	m.notifier.Send(ctx, p.DiscordID, "تم تسليم المنتج 📦",
		fmt.Sprintf("تم تسليم طلبك الخاص بمنتج \"%s\"! يمكنك رؤية البيانات الآن في منطقة العميل.", p.ProductTitle),
		notifications.TypeSuccess)

	return nil
}

func (m *Manager) ListAll(ctx context.Context) ([]purchases.Purchase, error) {
	out, err := m.purchases.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}

	return out, nil
}

func (m *Manager) ListRecent(ctx context.Context, userID string) ([]purchases.Purchase, error) {
	out, err := m.purchases.ListRecentByUser(ctx, userID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent purchases: %w", err)
	}

	return out, nil
}
