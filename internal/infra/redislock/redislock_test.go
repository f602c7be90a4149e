package redislock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fastprodman/storefront/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocker(t *testing.T, ttl time.Duration) *Locker {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client, err := NewClient(t.Context(), config.RedisConfig{Addr: addr})
	if err != nil {
		t.Skipf("redis unavailable (%s): %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return New(client, ttl)
}

func TestLocker_ExclusiveUntilReleased(t *testing.T) {
	t.Parallel()

	l := newLocker(t, 5*time.Second)
	key := "test:lock:" + uuid.NewString()

	release, err := l.Acquire(t.Context(), key)
	require.NoError(t, err)

	_, err = l.Acquire(t.Context(), key)
	require.ErrorIs(t, err, ErrNotAcquired)

	release()

	release2, err := l.Acquire(t.Context(), key)
	require.NoError(t, err)
	release2()
}

func TestLocker_StaleReleaseKeepsNewOwner(t *testing.T) {
	t.Parallel()

	l := newLocker(t, 200*time.Millisecond)
	key := "test:lock:" + uuid.NewString()

	staleRelease, err := l.Acquire(t.Context(), key)
	require.NoError(t, err)

	time.Sleep(400 * time.Millisecond)

	release, err := l.Acquire(t.Context(), key)
	require.NoError(t, err)
	defer release()

	staleRelease()

	_, err = l.Acquire(t.Context(), key)
	assert.ErrorIs(t, err, ErrNotAcquired)
}

func TestNoop(t *testing.T) {
	t.Parallel()

	release, err := Noop{}.Acquire(context.Background(), "k")
	require.NoError(t, err)
	release()

	_, err = Noop{}.Acquire(context.Background(), "k")
	require.NoError(t, err)
}
