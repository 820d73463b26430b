package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-bff/internal/checkout"
	"github.com/angelmondragon/storefront-bff/internal/cron"
	"github.com/angelmondragon/storefront-bff/pkg/config"
	"github.com/angelmondragon/storefront-bff/pkg/db"
	"github.com/angelmondragon/storefront-bff/pkg/instance"
	"github.com/angelmondragon/storefront-bff/pkg/lock"
	"github.com/angelmondragon/storefront-bff/pkg/logger"
	"github.com/angelmondragon/storefront-bff/pkg/metrics"
	"github.com/angelmondragon/storefront-bff/pkg/migrate"
	"github.com/angelmondragon/storefront-bff/pkg/redis"
	"github.com/angelmondragon/storefront-bff/pkg/session"
)

func main() {
	once := flag.Bool("once", false, "run a single cycle and exit")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Instance:    instance.ID(),
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var locker lock.Locker = lock.NewMemoryLocker()
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		if locker, err = lock.NewRedisLocker(redisClient); err != nil {
			logg.Error(context.Background(), "failed to create redis locker", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "redis not configured; cron lock is process-local")
	}

	cycleLock, err := cron.NewCycleLock(locker, "cron:"+envOrLocal(cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	cronMetrics := metrics.NewCronMetrics(promRegistry)

	registry, err := buildRegistry(cfg, logg, dbClient, cronMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to register cron jobs", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     cycleLock,
		Metrics:  cronMetrics,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})

	if *once {
		if err := service.RunOnce(ctx); err != nil {
			logg.Error(ctx, "cron cycle failed", err)
			os.Exit(1)
		}
		return
	}

	metricsServer := &http.Server{
		Addr:              cfg.Cron.MetricsAddr,
		Handler:           promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics server stopped", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logg.Info(ctx, "starting cron worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

// buildRegistry wires the abandoned-checkout sweep and, for backends that do
// not expire keys on their own, the session purge.
func buildRegistry(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, m *metrics.CronMetrics) (*cron.Registry, error) {
	registry := cron.NewRegistry()

	ledger, err := checkout.NewLedger(dbClient)
	if err != nil {
		return nil, err
	}
	abandoned, err := cron.NewAbandonedCheckoutJob(cron.AbandonedCheckoutJobParams{
		Logger:       logg,
		Ledger:       ledger,
		Metrics:      m,
		AbandonAfter: cfg.Checkout.AbandonAfter,
	})
	if err != nil {
		return nil, err
	}
	registry.Register(abandoned)

	if strings.EqualFold(strings.TrimSpace(cfg.Session.Backend), config.SessionBackendSQL) {
		backend, err := session.NewSQLBackend(dbClient.DB())
		if err != nil {
			return nil, err
		}
		expiry, err := cron.NewSessionExpiryJob(cron.SessionExpiryJobParams{
			Logger:  logg,
			Purger:  backend,
			Metrics: m,
		})
		if err != nil {
			return nil, err
		}
		registry.Register(expiry)
	}
	return registry, nil
}

func envOrLocal(env string) string {
	if env == "" {
		return "local"
	}
	return env
}
