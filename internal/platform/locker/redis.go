package locker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/erp_finance/internal/apperrors"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces document locks in a shared Redis.
const KeyPrefix = "finance:document:"

const (
	DefaultTTL           = 30 * time.Second
	DefaultRetryInterval = 50 * time.Millisecond
)

// Redis is a DocumentLocker backed by redislock. A lock that is not released
// expires after TTL.
type Redis struct {
	client        *redislock.Client
	TTL           time.Duration
	RetryInterval time.Duration
}

var _ portsrepo.DocumentLocker = (*Redis)(nil)

// NewRedis wraps an existing go-redis client.
func NewRedis(rdb redis.UniversalClient) *Redis {
	return &Redis{
		client:        redislock.New(rdb),
		TTL:           DefaultTTL,
		RetryInterval: DefaultRetryInterval,
	}
}

// Acquire retries until the lock is obtained or ctx is done. Without a
// deadline on ctx it gives up after TTL.
func (r *Redis) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	key = KeyPrefix + key
	lock, err := r.client.Obtain(ctx, key, r.TTL, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(r.RetryInterval),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: document is locked by another operation (%s)", apperrors.ErrConflict, key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}

	return func(ctx context.Context) error {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("release lock %s: %w", key, err)
		}
		return nil
	}, nil
}
