package notifications

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/storefront/internal/repos/notifications"
)

var _ notifications.Notifications = (*notificationsRepo)(nil)

type notificationsRepo struct{ db *sql.DB }

func New(db *sql.DB) *notificationsRepo {
	return &notificationsRepo{db: db}
}

func (r *notificationsRepo) Insert(ctx context.Context, n notifications.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (discord_id, title, message, type)
		VALUES ($1, $2, $3, $4)
	`, n.DiscordID, n.Title, n.Message, string(n.Type))
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

func (r *notificationsRepo) ListByUser(ctx context.Context, userID string) ([]notifications.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, discord_id, title, message, type, is_read, created_at
		FROM notifications
		WHERE discord_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]notifications.Notification, 0)
	for rows.Next() {
		var n notifications.Notification

		err = rows.Scan(&n.ID, &n.DiscordID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return out, nil
}

func (r *notificationsRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE discord_id = $1 AND NOT is_read
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}

	return res.RowsAffected()
}

func (r *notificationsRepo) Clear(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE discord_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear notifications: %w", err)
	}

	return res.RowsAffected()
}
