package shutdownqueue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilTaskIsIgnored(t *testing.T) {
	t.Parallel()

	q := New()
	q.Add("nil", nil)

	assert.Equal(t, 0, q.Len())
	require.NoError(t, q.Shutdown(t.Context()))
}

func TestLIFOOrder(t *testing.T) {
	t.Parallel()

	q := New()

	var order []string

	for _, name := range []string{"postgres", "redis", "http"} {
		q.Add(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, q.Shutdown(t.Context()))
	assert.Equal(t, []string{"http", "redis", "postgres"}, order)
}

func TestPanicIsRecoveredAndDrainContinues(t *testing.T) {
	t.Parallel()

	q := New()

	var ranAfter atomic.Bool

	q.Add("after", func(context.Context) error {
		ranAfter.Store(true)
		return nil
	})
	q.Add("boom", func(context.Context) error { panic("boom") })

	err := q.Shutdown(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom: panic in shutdown task: boom")
	assert.True(t, ranAfter.Load())
}

func TestErrorsAreJoinedAndNamed(t *testing.T) {
	t.Parallel()

	q := New()
	errDB := errors.New("close failed")
	errSrv := errors.New("still serving")

	q.Add("postgres", func(context.Context) error { return errDB })
	q.Add("http", func(context.Context) error { return errSrv })

	err := q.Shutdown(t.Context())
	require.Error(t, err)
	require.ErrorIs(t, err, errDB)
	require.ErrorIs(t, err, errSrv)
	assert.Contains(t, err.Error(), "postgres: close failed")
	assert.Contains(t, err.Error(), "http: still serving")
}

func TestCancelStopsDrain(t *testing.T) {
	t.Parallel()

	q := New()

	var ranDB atomic.Bool

	q.Add("postgres", func(context.Context) error {
		ranDB.Store(true)
		return nil
	})

	entered := make(chan struct{})
	q.Add("http", func(ctx context.Context) error {
		close(entered)
		<-ctx.Done()

		return nil
	})

	ctx, cancel := context.WithCancel(t.Context())
	errCh := make(chan error, 1)

	go func() { errCh <- q.Shutdown(ctx) }()

	<-entered
	cancel()

	err := <-errCh
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), `before "postgres"`)
	assert.False(t, ranDB.Load())
}

func TestShutdownRunsOnce(t *testing.T) {
	t.Parallel()

	q := New()

	var count atomic.Int32

	q.Add("once", func(context.Context) error {
		count.Add(1)
		return nil
	})

	require.NoError(t, q.Shutdown(t.Context()))
	require.NoError(t, q.Shutdown(t.Context()))
	assert.Equal(t, int32(1), count.Load())
}

func TestAddDuringShutdownIsIgnored(t *testing.T) {
	t.Parallel()

	q := New()
	started := make(chan struct{})
	unblock := make(chan struct{})

	q.Add("blocker", func(context.Context) error {
		close(started)
		<-unblock

		return nil
	})

	done := make(chan struct{})

	go func() {
		_ = q.Shutdown(context.Background())

		close(done)
	}()

	<-started

	var ran atomic.Bool

	q.Add("late", func(context.Context) error {
		ran.Store(true)
		return nil
	})
	close(unblock)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not finish")
	}

	assert.False(t, ran.Load())
	assert.Equal(t, 0, q.Len())
}
