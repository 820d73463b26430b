package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(sessionID, field string) string
}

// RedisBackend stores each session field under its own key so TTLs apply per field.
type RedisBackend struct {
	store redisStore
}

func NewRedisBackend(store redisStore) (*RedisBackend, error) {
	if store == nil {
		return nil, errors.New("redis client is required")
	}
	return &RedisBackend{store: store}, nil
}

func (r *RedisBackend) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	value, err := r.store.Get(ctx, r.store.SessionKey(sessionID, key))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(value), nil
}

func (r *RedisBackend) Set(ctx context.Context, sessionID, key string, value []byte, ttl time.Duration) error {
	return r.store.Set(ctx, r.store.SessionKey(sessionID, key), string(value), ttl)
}

func (r *RedisBackend) Del(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, key := range keys {
		full = append(full, r.store.SessionKey(sessionID, key))
	}
	return r.store.Del(ctx, full...)
}
