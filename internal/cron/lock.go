package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-bff/pkg/lock"
)

const (
	defaultLockKey = "cron:cycle"
	defaultLockTTL = 10 * time.Minute
)

// Lock coordinates exclusive cron runs across worker replicas.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// CycleLock holds one named try-lock for the length of a cycle.
type CycleLock struct {
	locker  lock.Locker
	key     string
	ttl     time.Duration
	release lock.Release
}

// NewCycleLock wraps a Locker. Use a Redis locker when more than one worker runs.
func NewCycleLock(locker lock.Locker, key string, ttl time.Duration) (*CycleLock, error) {
	if locker == nil {
		return nil, errors.New("locker required for cron lock")
	}
	if key == "" {
		key = defaultLockKey
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &CycleLock{locker: locker, key: key, ttl: ttl}, nil
}

func (l *CycleLock) Acquire(ctx context.Context) (bool, error) {
	release, ok, err := l.locker.TryLock(ctx, l.key, l.ttl)
	if err != nil {
		return false, fmt.Errorf("acquire %s: %w", l.key, err)
	}
	if ok {
		l.release = release
	}
	return ok, nil
}

// Release is a no-op when the lock is not held.
func (l *CycleLock) Release(ctx context.Context) error {
	if l.release == nil {
		return nil
	}
	release := l.release
	l.release = nil
	if err := release(ctx); err != nil {
		return fmt.Errorf("release %s: %w", l.key, err)
	}
	return nil
}
