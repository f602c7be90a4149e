package notifications

import (
	"context"
	"time"
)

type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeError   Type = "error"
)

type Notification struct {
	ID        int64
	DiscordID string
	Title     string
	Message   string
	Type      Type
	IsRead    bool
	CreatedAt time.Time
}

type Notifications interface {
	Insert(ctx context.Context, n Notification) error
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Clear(ctx context.Context, userID string) (int64, error)
}
