// Package session holds per-shopper state that a browser client would keep in
// local storage: the auth token, the buy-now selection, flags and wizard
// progress. Storage is pluggable; writes are last-write-wins.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session entry not found")

// Backend stores opaque values per (session, key). A zero ttl means no expiry.
type Backend interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	Set(ctx context.Context, sessionID, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, sessionID string, keys ...string) error
}

// Purger is implemented by backends that need explicit expiry sweeps.
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
