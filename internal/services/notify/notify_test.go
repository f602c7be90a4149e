package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fastprodman/storefront/internal/infra/logging"
	"github.com/fastprodman/storefront/internal/repos/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	inserted []notifications.Notification
	ctxErr   error
	err      error
}

func (f *fakeRepo) Insert(ctx context.Context, n notifications.Notification) error {
	f.ctxErr = ctx.Err()
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, n)
	return nil
}

func (f *fakeRepo) ListByUser(context.Context, string) ([]notifications.Notification, error) {
	return f.inserted, f.err
}

func (f *fakeRepo) MarkAllRead(context.Context, string) (int64, error) { return 0, f.err }
func (f *fakeRepo) Clear(context.Context, string) (int64, error)       { return 0, f.err }

func TestSend_StoresEvenWhenRequestCanceled(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	svc := New(repo)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	svc.Send(ctx, "u-1", "title", "msg", notifications.TypeSuccess)

	require.Len(t, repo.inserted, 1)
	assert.NoError(t, repo.ctxErr)
	assert.Equal(t, notifications.TypeSuccess, repo.inserted[0].Type)
	assert.Equal(t, "u-1", repo.inserted[0].DiscordID)
}

func TestSend_FailureIsLoggedNotReturned(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.WithLogger(t.Context(), logging.NewJSON(&buf, slog.LevelDebug))

	svc := New(&fakeRepo{err: errors.New("db down")})
	svc.Send(ctx, "u-1", "title", "msg", notifications.TypeInfo)

	assert.Contains(t, buf.String(), "notification not stored")
	assert.Contains(t, buf.String(), "db down")
}

func TestPassThroughErrorsAreWrapped(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	svc := New(&fakeRepo{err: boom})

	_, err := svc.List(t.Context(), "u")
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, svc.MarkAllRead(t.Context(), "u"), boom)
	require.ErrorIs(t, svc.Clear(t.Context(), "u"), boom)
}
