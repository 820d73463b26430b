package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/storefront-bff/pkg/config"
)

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	allowed, count, err := client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Fatalf("expected allowed on first request")
	}
	if count != 1 {
		t.Fatalf("expected counter 1 got %d", count)
	}
	if len(mock.ttl) != 1 {
		t.Fatalf("expected ttl after first increment")
	}

	allowed, count, err = client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed || count != 2 {
		t.Fatalf("unexpected second call state allowed=%v count=%d", allowed, count)
	}
	if mock.expireCalls != 2 || mock.ttl[client.RateLimitKey("test-scope")] != time.Second {
		t.Fatalf("expected expire nx on every hit, got %d calls", mock.expireCalls)
	}

	allowed, _, err = client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatalf("expected limit reached")
	}
}

func TestSetNXOnlyOnce(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	key := client.LockKey("checkout", "sess-1")
	ok, err := client.SetNX(ctx, key, "owner-a", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first setnx should win: ok=%v err=%v", ok, err)
	}
	ok, err = client.SetNX(ctx, key, "owner-b", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("second setnx should lose")
	}
	owner, err := client.Get(ctx, key)
	if err != nil || owner != "owner-a" {
		t.Fatalf("expected owner-a, got %q err=%v", owner, err)
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, key); err != redis.Nil {
		t.Fatalf("expected redis.Nil after del, got %v", err)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	client := &Client{}
	if err := client.Set(context.Background(), "k", "v", 0); err == nil {
		t.Fatalf("expected error from uninitialized client")
	}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping error from uninitialized client")
	}
	if _, _, err := client.FixedWindowAllow(context.Background(), "s", 1, time.Second); err == nil {
		t.Fatalf("expected rate limit error from uninitialized client")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close without raw client should be a no-op, got %v", err)
	}
	var nilClient *Client
	if err := nilClient.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping error from nil client")
	}
}

func TestFixedWindowAllowSurfacesExpireError(t *testing.T) {
	mock := newMockCmdable()
	mock.expireErr = errors.New("readonly replica")
	client := &Client{store: mock}

	_, count, err := client.FixedWindowAllow(context.Background(), "scope", 5, time.Minute)
	if err == nil || count != 1 {
		t.Fatalf("expected expire error with count 1, got count=%d err=%v", count, err)
	}
}

func TestNamespacedKeys(t *testing.T) {
	client := &Client{namespace: "sf-staging"}
	if got := client.SessionKey("abc", "cart"); got != "sf-staging:session:abc:cart" {
		t.Fatalf("unexpected session key %s", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected missing endpoint error")
	}

	opts, err := optionsFromConfig(config.RedisConfig{
		URL:         "redis://:secret@cache:6380/3",
		PoolSize:    20,
		DialTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if opts.Addr != "cache:6380" || opts.DB != 3 || opts.Password != "secret" {
		t.Fatalf("unexpected url options %+v", opts)
	}
	if opts.PoolSize != 20 || opts.DialTimeout != 2*time.Second {
		t.Fatalf("expected config to fill pool settings, got %+v", opts)
	}

	opts, err = optionsFromConfig(config.RedisConfig{Address: "localhost:6379", DB: 1})
	if err != nil || opts.Addr != "localhost:6379" || opts.DB != 1 {
		t.Fatalf("unexpected address options %+v err=%v", opts, err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.IdempotencyKey("scope", "id"); got != "sf:idempotency:scope:id" {
		t.Fatalf("unexpected idempotency key %s", got)
	}
	if got := client.RateLimitKey("scope"); got != "sf:rate_limit:scope" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := client.LockKey("cron", "jobs"); got != "sf:lock:cron:jobs" {
		t.Fatalf("unexpected lock key %s", got)
	}
	if got := client.SessionKey("abc", "token"); got != "sf:session:abc:token" {
		t.Fatalf("unexpected session key %s", got)
	}
	if got := client.SessionKey("abc", ""); got != "sf:session:abc" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

type mockCmdable struct {
	data        map[string]string
	incr        map[string]int64
	ttl         map[string]time.Duration
	expireCalls int
	expireErr   error
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		incr: make(map[string]int64),
		ttl:  make(map[string]time.Duration),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) ExpireNX(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.expireCalls++
	if m.expireErr != nil {
		return redis.NewBoolResult(false, m.expireErr)
	}
	if _, ok := m.ttl[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.ttl[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
