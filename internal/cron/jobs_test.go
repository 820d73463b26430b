package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront-bff/internal/checkout"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/session"
)

type fakeMarker struct {
	cutoff time.Time
	stale  []checkout.Attempt
	err    error
}

func (f *fakeMarker) MarkAbandoned(_ context.Context, cutoff time.Time) ([]checkout.Attempt, error) {
	f.cutoff = cutoff
	return f.stale, f.err
}

func TestAbandonedCheckoutJobUsesCutoff(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	marker := &fakeMarker{stale: []checkout.Attempt{{OrderID: "o1", SessionID: "s1", Amount: decimal.NewFromInt(500)}}}
	job, err := NewAbandonedCheckoutJob(AbandonedCheckoutJobParams{
		Logger:       logger.Nop(),
		Ledger:       marker,
		AbandonAfter: 2 * time.Hour,
	})
	require.NoError(t, err)
	job.(*abandonedCheckoutJob).now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, now.Add(-2*time.Hour), marker.cutoff)
	assert.Equal(t, "abandoned-checkout", job.Name())
}

func TestAbandonedCheckoutJobPropagatesError(t *testing.T) {
	job, err := NewAbandonedCheckoutJob(AbandonedCheckoutJobParams{
		Logger: logger.Nop(),
		Ledger: &fakeMarker{err: errors.New("db down")},
	})
	require.NoError(t, err)
	assert.Error(t, job.Run(context.Background()))
	assert.Equal(t, defaultAbandonAfter, job.(*abandonedCheckoutJob).after)
}

func TestSessionExpiryJobPurgesMemoryBackend(t *testing.T) {
	ctx := context.Background()
	backend := session.NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, "s1", "token", []byte("x"), time.Millisecond))
	require.NoError(t, backend.Set(ctx, "s2", "token", []byte("y"), time.Hour))

	job, err := NewSessionExpiryJob(SessionExpiryJobParams{Logger: logger.Nop(), Purger: backend})
	require.NoError(t, err)
	job.(*sessionExpiryJob).now = func() time.Time { return time.Now().Add(time.Minute) }
	require.NoError(t, job.Run(ctx))

	again, err := backend.PurgeExpired(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Zero(t, again, "expired entry should already be gone")
	_, err = backend.Get(ctx, "s1", "token")
	assert.ErrorIs(t, err, session.ErrNotFound)
	kept, err := backend.Get(ctx, "s2", "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("y"), kept)
}

func TestJobConstructorsValidate(t *testing.T) {
	_, err := NewSessionExpiryJob(SessionExpiryJobParams{Logger: logger.Nop()})
	assert.Error(t, err)
	_, err = NewAbandonedCheckoutJob(AbandonedCheckoutJobParams{Ledger: &fakeMarker{}})
	assert.Error(t, err)
}
