package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-bff/internal/checkout"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/metrics"
)

const defaultAbandonAfter = time.Hour

type abandonMarker interface {
	MarkAbandoned(ctx context.Context, cutoff time.Time) ([]checkout.Attempt, error)
}

type AbandonedCheckoutJobParams struct {
	Logger       *logger.Logger
	Ledger       abandonMarker
	Metrics      *metrics.CronMetrics
	AbandonAfter time.Duration
}

// NewAbandonedCheckoutJob flags online payments that never settled. Orders
// already created remotely are not cancelled; each one is logged so support
// can follow up.
func NewAbandonedCheckoutJob(params AbandonedCheckoutJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("checkout ledger required")
	}
	after := params.AbandonAfter
	if after <= 0 {
		after = defaultAbandonAfter
	}
	return &abandonedCheckoutJob{
		logg:    params.Logger,
		ledger:  params.Ledger,
		metrics: params.Metrics,
		after:   after,
		now:     time.Now,
	}, nil
}

type abandonedCheckoutJob struct {
	logg    *logger.Logger
	ledger  abandonMarker
	metrics *metrics.CronMetrics
	after   time.Duration
	now     func() time.Time
}

func (j *abandonedCheckoutJob) Name() string { return "abandoned-checkout" }

func (j *abandonedCheckoutJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.after)
	stale, err := j.ledger.MarkAbandoned(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("mark abandoned checkouts: %w", err)
	}
	j.metrics.AddSwept(j.Name(), int64(len(stale)))
	for _, attempt := range stale {
		attemptCtx := j.logg.WithOrderID(ctx, attempt.OrderID)
		attemptCtx = j.logg.WithFields(attemptCtx, map[string]any{
			"session_id":   attempt.SessionID,
			"order_number": attempt.OrderNumber,
			"amount":       attempt.Amount.String(),
			"created_at":   attempt.CreatedAt,
		})
		j.logg.Warn(attemptCtx, "checkout.abandoned")
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":    cutoff,
		"abandoned": len(stale),
	}), "abandoned checkout sweep complete")
	return nil
}
