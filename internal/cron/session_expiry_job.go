package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/metrics"
	"github.com/angelmondragon/storefront-bff/pkg/session"
)

type SessionExpiryJobParams struct {
	Logger  *logger.Logger
	Purger  session.Purger
	Metrics *metrics.CronMetrics
}

// NewSessionExpiryJob sweeps expired session rows. Redis expires keys on its
// own, so the job is only registered for the SQL and memory backends.
func NewSessionExpiryJob(params SessionExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Purger == nil {
		return nil, fmt.Errorf("session purger required")
	}
	return &sessionExpiryJob{
		logg:    params.Logger,
		purger:  params.Purger,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

type sessionExpiryJob struct {
	logg    *logger.Logger
	purger  session.Purger
	metrics *metrics.CronMetrics
	now     func() time.Time
}

func (j *sessionExpiryJob) Name() string { return "session-expiry" }

func (j *sessionExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	deleted, err := j.purger.PurgeExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("purge expired sessions: %w", err)
	}
	j.metrics.AddSwept(j.Name(), deleted)
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":       now,
		"rows_deleted": deleted,
	}), "session expiry complete")
	return nil
}
