package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ReaperLockKey is the Redis key guarding the reaper across replicas.
const ReaperLockKey = "academic:lock:test_run_reaper"

// ErrLockHeld is returned by TryLock when another holder owns the lock.
var ErrLockHeld = errors.New("lock held by another holder")

// Locker grants exclusive access to one reaper pass. The returned release
// func must be called when the pass ends.
type Locker interface {
	TryLock(ctx context.Context, ttl time.Duration) (release func(), err error)
}

// LocalLocker serializes passes within one process.
type LocalLocker struct {
	mu sync.Mutex
}

func (l *LocalLocker) TryLock(_ context.Context, _ time.Duration) (func(), error) {
	if !l.mu.TryLock() {
		return nil, ErrLockHeld
	}
	return l.mu.Unlock, nil
}

// Only the holder whose token matches may delete the key.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker uses SET NX PX so only one replica reaps at a time.
type RedisLocker struct {
	rdb *redis.Client
	key string
}

func NewRedisLocker(rdb *redis.Client, key string) *RedisLocker {
	return &RedisLocker{rdb: rdb, key: key}
}

func (l *RedisLocker) TryLock(ctx context.Context, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return func() {
		// The lock may already have expired; nothing to do then.
		_ = releaseScript.Run(context.Background(), l.rdb, []string{l.key}, token).Err()
	}, nil
}
