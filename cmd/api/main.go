package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/storefront-bff/api/controllers"
	"github.com/angelmondragon/storefront-bff/api/routes"
	"github.com/angelmondragon/storefront-bff/internal/addresses"
	"github.com/angelmondragon/storefront-bff/internal/auth"
	"github.com/angelmondragon/storefront-bff/internal/buynow"
	"github.com/angelmondragon/storefront-bff/internal/cart"
	"github.com/angelmondragon/storefront-bff/internal/checkout"
	"github.com/angelmondragon/storefront-bff/internal/consultations"
	"github.com/angelmondragon/storefront-bff/internal/cron"
	"github.com/angelmondragon/storefront-bff/internal/orders"
	"github.com/angelmondragon/storefront-bff/internal/products"
	"github.com/angelmondragon/storefront-bff/internal/reviews"
	"github.com/angelmondragon/storefront-bff/internal/shopapi"
	"github.com/angelmondragon/storefront-bff/internal/wishlist"
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

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured; rate limiting and idempotent replay disabled")
	}

	backend, err := sessionBackend(cfg, dbClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create session backend", err)
		os.Exit(1)
	}
	sessions := session.NewStore(backend, cfg.Session.TTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	api, err := shopapi.NewClient(cfg.API.BaseURL,
		shopapi.WithTimeout(cfg.API.Timeout),
		shopapi.WithCredentials(session.NewCredentials(sessions)),
		shopapi.WithMetrics(metrics.NewUpstreamMetrics(registry)),
		shopapi.WithLogger(logg),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create commerce api client", err)
		os.Exit(1)
	}

	services, err := buildServices(cfg, logg, api, sessions, dbClient, redisClient, registry)
	if err != nil {
		logg.Error(context.Background(), "failed to create services", err)
		os.Exit(1)
	}

	ready := map[string]controllers.Pinger{"db": dbClient}
	if redisClient != nil {
		ready["redis"] = redisClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":             cfg.App.Env,
		"addr":            addr,
		"session_backend": cfg.Session.Backend,
		"commerce_api":    api.BaseURL(),
	})
	logg.Info(ctx, "starting storefront api")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Infra{
			Tokens:   sessions,
			Redis:    redisClient,
			Ready:    ready,
			Gatherer: registry,
		}, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if memory, ok := backend.(*session.MemoryBackend); ok {
		if err := startMemorySweep(sigCtx, cfg, logg, memory, registry); err != nil {
			logg.Error(ctx, "failed to start session sweep", err)
			os.Exit(1)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func sessionBackend(cfg *config.Config, dbClient *db.Client, redisClient *redis.Client) (session.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Session.Backend)) {
	case config.SessionBackendRedis:
		return session.NewRedisBackend(redisClient)
	case config.SessionBackendSQL:
		return session.NewSQLBackend(dbClient.DB())
	default:
		return session.NewMemoryBackend(), nil
	}
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	api *shopapi.Client,
	sessions *session.Store,
	dbClient *db.Client,
	redisClient *redis.Client,
	registry prometheus.Registerer,
) (routes.Services, error) {
	var (
		svc routes.Services
		err error
	)
	if svc.Auth, err = auth.NewService(auth.ServiceParams{API: api, Store: sessions, Logger: logg}); err != nil {
		return svc, err
	}
	if svc.Addresses, err = addresses.NewService(api); err != nil {
		return svc, err
	}
	if svc.Products, err = products.NewService(products.ServiceParams{API: api, Logger: logg}); err != nil {
		return svc, err
	}
	if svc.Reviews, err = reviews.NewService(api); err != nil {
		return svc, err
	}
	if svc.Cart, err = cart.NewService(api); err != nil {
		return svc, err
	}
	if svc.Wishlist, err = wishlist.NewService(api); err != nil {
		return svc, err
	}
	if svc.BuyNow, err = buynow.NewService(api, sessions); err != nil {
		return svc, err
	}
	if svc.Orders, err = orders.NewService(api); err != nil {
		return svc, err
	}
	if svc.Consultations, err = consultations.NewService(api); err != nil {
		return svc, err
	}

	var locker lock.Locker = lock.NewMemoryLocker()
	if redisClient != nil {
		if locker, err = lock.NewRedisLocker(redisClient); err != nil {
			return svc, err
		}
	}
	ledger, err := checkout.NewLedger(dbClient)
	if err != nil {
		return svc, err
	}
	svc.Checkout, err = checkout.NewService(checkout.ServiceParams{
		API:     api,
		Store:   sessions,
		Locker:  locker,
		Ledger:  ledger,
		Metrics: metrics.NewCheckoutMetrics(registry),
		Logger:  logg,
		Config:  cfg.Checkout,
	})
	return svc, err
}

// startMemorySweep purges the in-process session backend, which the cron
// worker cannot reach.
func startMemorySweep(ctx context.Context, cfg *config.Config, logg *logger.Logger, backend *session.MemoryBackend, reg prometheus.Registerer) error {
	cronMetrics := metrics.NewCronMetrics(reg)
	job, err := cron.NewSessionExpiryJob(cron.SessionExpiryJobParams{
		Logger:  logg,
		Purger:  backend,
		Metrics: cronMetrics,
	})
	if err != nil {
		return err
	}
	cycleLock, err := cron.NewCycleLock(lock.NewMemoryLocker(), "session-sweep", cfg.Cron.LockTTL)
	if err != nil {
		return err
	}
	sweeper, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(job),
		Lock:     cycleLock,
		Metrics:  cronMetrics,
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		return err
	}
	go runSweep(ctx, logg, sweeper.Run)
	return nil
}

// runSweep blocks until run returns and logs any exit other than shutdown.
func runSweep(ctx context.Context, logg *logger.Logger, run func(context.Context) error) {
	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "session sweep stopped", err)
	}
}
