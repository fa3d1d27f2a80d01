package job_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdashhq/webdash/pkg/job"
)

// fakeRedis backs the two commands the Locker issues: SET NX for acquisition
// and the compare-and-del script for release. Everything else panics through
// the embedded nil interface, which keeps the fake honest about what the
// Locker actually touches.
type fakeRedis struct {
	redis.UniversalClient

	mu   sync.Mutex
	vals map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{vals: make(map[string]string)}
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd := redis.NewBoolCmd(ctx)
	if _, held := f.vals[key]; held {
		cmd.SetVal(false)
		return cmd
	}
	f.vals[key] = value.(string)
	cmd.SetVal(true)
	return cmd
}

func (f *fakeRedis) EvalSha(ctx context.Context, _ string, keys []string, args ...any) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd := redis.NewCmd(ctx)
	if f.vals[keys[0]] == args[0].(string) {
		delete(f.vals, keys[0])
		cmd.SetVal(int64(1))
		return cmd
	}
	cmd.SetVal(int64(0))
	return cmd
}

// expireAll drops every key, standing in for TTL expiry.
func (f *fakeRedis) expireAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vals = make(map[string]string)
}

func TestLocker_Acquire(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("single holder per key", func(t *testing.T) {
		t.Parallel()
		locker := job.NewLocker(newFakeRedis(), time.Minute)

		release, err := locker.Acquire(ctx, "bakery")
		require.NoError(t, err)

		_, err = locker.Acquire(ctx, "bakery")
		assert.ErrorIs(t, err, job.ErrLocked)

		releaseOther, err := locker.Acquire(ctx, "florist")
		require.NoError(t, err, "locks on different keys are independent")
		require.NoError(t, releaseOther(ctx))

		require.NoError(t, release(ctx))
		release, err = locker.Acquire(ctx, "bakery")
		require.NoError(t, err, "released key can be taken again")
		require.NoError(t, release(ctx))
	})

	t.Run("stale release does not free a re-acquired lock", func(t *testing.T) {
		t.Parallel()
		rdb := newFakeRedis()
		locker := job.NewLocker(rdb, time.Minute)

		staleRelease, err := locker.Acquire(ctx, "bakery")
		require.NoError(t, err)

		// The first holder's TTL lapses and another worker takes the key.
		rdb.expireAll()
		release, err := locker.Acquire(ctx, "bakery")
		require.NoError(t, err)

		// The overrun worker's release is a no-op: its token no longer
		// matches, so the current holder keeps the lock.
		require.NoError(t, staleRelease(ctx))
		_, err = locker.Acquire(ctx, "bakery")
		assert.ErrorIs(t, err, job.ErrLocked)

		require.NoError(t, release(ctx))
	})
}
