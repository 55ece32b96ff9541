//go:build e2e

package worker

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLockerExcludes(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	key := "academic:test:lock:" + uuid.NewString()
	a := NewRedisLocker(rdb, key)
	b := NewRedisLocker(rdb, key)

	release, err := a.TryLock(ctx, time.Minute)
	require.NoError(t, err)

	_, err = b.TryLock(ctx, time.Minute)
	assert.ErrorIs(t, err, ErrLockHeld)

	release()
	releaseB, err := b.TryLock(ctx, time.Minute)
	require.NoError(t, err)
	releaseB()

	exists, err := rdb.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}
