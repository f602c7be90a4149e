// Package redislock provides short-lived exclusive keys in Redis.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fastprodman/storefront/internal/config"
	"github.com/fastprodman/storefront/internal/infra/logging"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotAcquired = errors.New("lock is held by another owner")

const releaseTimeout = 2 * time.Second

// Deletes the key only while it still carries our token, so an expired and
// re-acquired lock is never released by its previous owner.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := client.Ping(pingCtx).Err()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

type Locker struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Locker {
	return &Locker{client: client, ttl: ttl}
}

// Acquire takes key for the configured TTL. It fails with ErrNotAcquired when
// someone else holds it. The returned release func is safe to call once.
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("setnx %s: %w", key, err)
	}

	if !ok {
		return nil, ErrNotAcquired
	}

	release := func() {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()

		err := releaseScript.Run(rctx, l.client, []string{key}, token).Err()
		if err != nil {
			logging.FromContext(ctx).Warn("redis lock release failed", "key", key, "error", err)
		}
	}

	return release, nil
}

// Noop never contends. It stands in when Redis is not configured.
type Noop struct{}

func (Noop) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}
