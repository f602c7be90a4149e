package purchases

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/storefront/internal/repos/purchases"
)

func (r *purchasesRepo) ListAll(ctx context.Context) ([]purchases.Purchase, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+purchaseColumns+` FROM purchases ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}

	return collect(rows)
}

func (r *purchasesRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]purchases.Purchase, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+purchaseColumns+`
		FROM purchases
		WHERE discord_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list user purchases: %w", err)
	}

	return collect(rows)
}

func (r *purchasesRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int

	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM purchases WHERE discord_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count purchases: %w", err)
	}

	return n, nil
}

func collect(rows *sql.Rows) ([]purchases.Purchase, error) {
	defer rows.Close()

	out := make([]purchases.Purchase, 0)
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		out = append(out, p)
	}

	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}

	return out, nil
}
