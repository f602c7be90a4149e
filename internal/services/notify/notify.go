// Package notify records per-user notifications outside of the ledger transactions.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/fastprodman/storefront/internal/infra/logging"
	"github.com/fastprodman/storefront/internal/repos/notifications"
)

const sendTimeout = 5 * time.Second

type Service struct {
	repo notifications.Notifications
}

func New(repo notifications.Notifications) *Service {
	return &Service{repo: repo}
}

// Send stores a notification. It is called after the owning transaction has committed,
// so a failure is logged and never returned.
func (s *Service) Send(ctx context.Context, userID, title, message string, typ notifications.Type) {
	// the request may already be gone; the notification should still land
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	err := s.repo.Insert(ctx, notifications.Notification{
		DiscordID: userID,
		Title:     title,
		Message:   message,
		Type:      typ,
	})
	if err != nil {
		logging.FromContext(ctx).Warn("notification not stored",
			"user_id", userID, "title", title, "error", err)
	}
}

func (s *Service) List(ctx context.Context, userID string) ([]notifications.Notification, error) {
	out, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return out, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return fmt.Errorf("mark all read: %w", err)
	}

	return nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	_, err := s.repo.Clear(ctx, userID)
	if err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}

	return nil
}
