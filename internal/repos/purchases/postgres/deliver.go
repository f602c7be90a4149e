package purchases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/storefront/internal/repos/purchases"
)

// Deliver fills in a processing purchase. Completed and delivered purchases keep their details.
func (r *purchasesRepo) Deliver(ctx context.Context, purchaseID int64, details string) (purchases.Purchase, error) {
	p, err := scanPurchase(r.db.QueryRowContext(ctx, `
		UPDATE purchases
		SET order_details = $2, status = $3, delivered_at = NOW()
		WHERE id = $1 AND status = $4
		RETURNING `+purchaseColumns,
		purchaseID, details, string(purchases.StatusDelivered), string(purchases.StatusProcessing)))
	if err == nil {
		return p, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return purchases.Purchase{}, fmt.Errorf("deliver purchase: %w", err)
	}

	var exists bool

	err = r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM purchases WHERE id = $1)`, purchaseID).Scan(&exists)
	if err != nil {
		return purchases.Purchase{}, fmt.Errorf("check purchase: %w", err)
	}

	if !exists {
		return purchases.Purchase{}, purchases.ErrPurchaseNotFound
	}

	return purchases.Purchase{}, purchases.ErrPurchaseNotPending
}
