// Package lock provides short-lived try-locks keyed by name. A lock that cannot
// be taken is reported as not acquired rather than waited on.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Release gives the lock back. Calling it after the TTL lapsed is harmless.
type Release func(ctx context.Context) error

// Locker hands out exclusive, expiring locks.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (Release, bool, error)
}

type redisStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	LockKey(parts ...string) string
}

// RedisLocker implements Locker with SETNX + TTL and owner-checked release.
type RedisLocker struct {
	client redisStore
}

func NewRedisLocker(client redisStore) (*RedisLocker, error) {
	if client == nil {
		return nil, errors.New("redis client required for lock")
	}
	return &RedisLocker{client: client}, nil
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (Release, bool, error) {
	if key == "" {
		return nil, false, errors.New("lock key is required")
	}
	fullKey := l.client.LockKey(key)
	owner := uuid.NewString()
	ok, err := l.client.SetNX(ctx, fullKey, owner, ttl)
	if err != nil {
		return nil, false, fmt.Errorf("setnx: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return func(ctx context.Context) error {
		value, err := l.client.Get(ctx, fullKey)
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil
			}
			return fmt.Errorf("read lock owner: %w", err)
		}
		if value != owner {
			return nil
		}
		if err := l.client.Del(ctx, fullKey); err != nil {
			return fmt.Errorf("delete lock: %w", err)
		}
		return nil
	}, true, nil
}

// MemoryLocker is a single-process Locker.
type MemoryLocker struct {
	mu    sync.Mutex
	held  map[string]memoryEntry
	clock func() time.Time
}

type memoryEntry struct {
	owner   string
	expires time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]memoryEntry), clock: time.Now}
}

func (l *MemoryLocker) TryLock(_ context.Context, key string, ttl time.Duration) (Release, bool, error) {
	if key == "" {
		return nil, false, errors.New("lock key is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if entry, ok := l.held[key]; ok && (entry.expires.IsZero() || now.Before(entry.expires)) {
		return nil, false, nil
	}
	entry := memoryEntry{owner: uuid.NewString()}
	if ttl > 0 {
		entry.expires = now.Add(ttl)
	}
	l.held[key] = entry

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if current, ok := l.held[key]; ok && current.owner == entry.owner {
			delete(l.held, key)
		}
		return nil
	}, true, nil
}
