package lock

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data map[string]string
}

func newFakeRedis() *fakeRedis { return &fakeRedis{data: map[string]string{}} }

func (f *fakeRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = value.(string)
	return true, nil
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeRedis) LockKey(parts ...string) string {
	key := "sf:lock"
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

func TestRedisLockerExclusive(t *testing.T) {
	ctx := context.Background()
	store := newFakeRedis()
	locker, err := NewRedisLocker(store)
	require.NoError(t, err)

	release, ok, err := locker.TryLock(ctx, "checkout:s1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, store.data, "sf:lock:checkout:s1")

	_, ok, err = locker.TryLock(ctx, "checkout:s1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second acquire should fail while held")

	require.NoError(t, release(ctx))
	_, ok, err = locker.TryLock(ctx, "checkout:s1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLockerReleaseKeepsForeignOwner(t *testing.T) {
	ctx := context.Background()
	store := newFakeRedis()
	locker, err := NewRedisLocker(store)
	require.NoError(t, err)

	release, ok, err := locker.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	// simulate TTL expiry and another owner taking over
	store.data["sf:lock:k"] = "someone-else"
	require.NoError(t, release(ctx))
	assert.Equal(t, "someone-else", store.data["sf:lock:k"])
}

func TestMemoryLockerExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	locker := NewMemoryLocker()
	locker.clock = func() time.Time { return now }

	release, ok, err := locker.TryLock(ctx, "a", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, _ = locker.TryLock(ctx, "a", time.Second)
	assert.False(t, ok)

	now = now.Add(2 * time.Second)
	releaseB, ok, _ := locker.TryLock(ctx, "a", time.Second)
	assert.True(t, ok, "expired lock should be reclaimable")

	require.NoError(t, release(ctx))
	_, ok, _ = locker.TryLock(ctx, "a", time.Second)
	assert.False(t, ok, "stale release must not free the new owner's lock")

	require.NoError(t, releaseB(ctx))
	_, ok, _ = locker.TryLock(ctx, "a", time.Second)
	assert.True(t, ok)
}

func TestEmptyKeyRejected(t *testing.T) {
	_, _, err := NewMemoryLocker().TryLock(context.Background(), "", time.Second)
	assert.Error(t, err)
	_, err = NewRedisLocker(nil)
	assert.Error(t, err)
}
