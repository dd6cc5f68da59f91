package redis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cryptopulse/internal/adapters/redis"
	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/logger"
)

// RunLock makes sure only one instance runs a named job at a time
type RunLock struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRunLock creates a lock whose holder expires after ttl
func NewRunLock(client *redis.Client, ttl time.Duration) *RunLock {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RunLock{
		client: client,
		ttl:    ttl,
		log:    logger.Get().With("component", "run_lock"),
	}
}

// Acquire takes the lock for name. The returned release func is safe to
// call once the lock has expired or been taken over.
func (l *RunLock) Acquire(ctx context.Context, name string) (func(), error) {
	token := uuid.NewString()

	ok, err := l.client.AcquireLock(ctx, name, token, l.ttl)
	if err != nil {
		return nil, errors.Wrapf(err, "acquire lock %s", name)
	}
	if !ok {
		return nil, errors.Wrapf(errors.ErrLockNotAcquired, "lock %s", name)
	}

	release := func() {
		// the caller's context may already be cancelled
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		released, err := l.client.ReleaseLock(ctx, name, token)
		if err != nil {
			l.log.Warnw("Failed to release lock", "lock", name, "error", err)
			return
		}
		if !released {
			l.log.Warnw("Lock expired before release", "lock", name, "ttl", l.ttl)
		}
	}
	return release, nil
}
