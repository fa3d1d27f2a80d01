package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if the caller still owns it, so a
// worker that overran the TTL cannot release a lock re-acquired by another.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Locker serializes workers on a per-job Redis key. The TTL bounds how long
// a crashed worker can block its job before the lock expires on its own.
type Locker struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// NewLocker creates a Locker. Panics on a nil client to fail fast during
// initialization. A non-positive TTL defaults to one minute.
func NewLocker(rdb redis.UniversalClient, ttl time.Duration) *Locker {
	if rdb == nil {
		panic("job: redis client is required")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Locker{rdb: rdb, ttl: ttl}
}

// Acquire takes the lock for the given key (a job ID or a subdomain). It
// returns a release function on success and ErrLocked when another worker
// holds the key.
func (l *Locker) Acquire(ctx context.Context, lockID string) (func(context.Context) error, error) {
	key := lockKey(lockID)
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire job lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("failed to release job lock: %w", err)
		}
		return nil
	}
	return release, nil
}

func lockKey(lockID string) string {
	return "job:lock:" + lockID
}
