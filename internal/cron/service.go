package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/metrics"
)

const defaultInterval = 15 * time.Minute

// ServiceParams configure the cron service.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.CronMetrics
	Interval time.Duration
}

// Service executes registered jobs on a fixed cadence.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.CronMetrics
	interval time.Duration
	clock    func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: interval,
		clock:    time.Now,
	}, nil
}

// Run executes a cycle immediately and then on every tick until ctx ends.
func (s *Service) Run(ctx context.Context) error {
	if err := s.runCycle(ctx); err != nil {
		s.logg.Error(ctx, "cron.cycle.failed", err)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "cron.stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				s.logg.Error(ctx, "cron.cycle.failed", err)
			}
		}
	}
}

// RunOnce executes a single cycle; used by the worker's one-shot mode.
func (s *Service) RunOnce(ctx context.Context) error {
	return s.runCycle(ctx)
}

// runCycle runs every job even when an earlier one fails and returns the
// combined job errors.
func (s *Service) runCycle(ctx context.Context) (err error) {
	locked, lockErr := s.lock.Acquire(ctx)
	if lockErr != nil {
		return fmt.Errorf("lock acquire: %w", lockErr)
	}
	if !locked {
		s.logg.Info(ctx, "cron.cycle.skipped")
		s.metrics.ObserveCycle(metrics.CycleSkipped)
		return nil
	}
	defer func() {
		if relErr := s.lock.Release(context.WithoutCancel(ctx)); relErr != nil {
			s.logg.Error(ctx, "cron.lock.release_failed", relErr)
		}
	}()

	s.logg.Info(ctx, "cron.cycle.start")
	for _, job := range s.registry.Jobs() {
		if ctx.Err() != nil {
			return multierr.Append(err, ctx.Err())
		}
		err = multierr.Append(err, s.runJob(ctx, job))
	}
	failed := len(multierr.Errors(err))
	if failed > 0 {
		s.metrics.ObserveCycle(metrics.CycleFailed)
	} else {
		s.metrics.ObserveCycle(metrics.CycleCompleted)
	}
	s.logg.Info(s.logg.WithField(ctx, "failed_jobs", failed), "cron.cycle.complete")
	return err
}

func (s *Service) runJob(ctx context.Context, job Job) error {
	jobCtx := s.logg.WithFields(ctx, map[string]any{"job": job.Name(), "event": "cron.job"})
	start := s.clock()
	err := job.Run(jobCtx)
	duration := s.clock().Sub(start)
	jobCtx = s.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
	s.metrics.ObserveRun(job.Name(), duration, err)
	if err != nil {
		s.logg.Error(jobCtx, "cron.job.failed", err)
		return fmt.Errorf("%s: %w", job.Name(), err)
	}
	s.logg.Info(jobCtx, "cron.job.completed")
	return nil
}
