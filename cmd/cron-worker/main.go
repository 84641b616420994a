package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bakhasuleiman/wesavefood-backend/internal/cron"
	"github.com/bakhasuleiman/wesavefood-backend/internal/products"
	"github.com/bakhasuleiman/wesavefood-backend/internal/reservations"
	"github.com/bakhasuleiman/wesavefood-backend/internal/stores"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/config"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/db"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/logger"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/metrics"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/redis"
)

// Standalone reconciliation worker for deployments that run the repair loop
// outside the API process. The API must then run in write-through mode so
// both processes see the same durable state.
func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	storeMetrics := metrics.NewStoreMetrics(prometheus.DefaultRegisterer)
	jobMetrics := metrics.NewJobMetrics(prometheus.DefaultRegisterer)

	dbClient, err := db.New(cfg.GitHub, storeMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap store", err)
		os.Exit(1)
	}

	storeRepo := stores.NewRepository(dbClient.Stores())
	storeService, err := stores.NewService(storeRepo, nil, uuid.NewString)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}

	reservationService, err := reservations.NewService(reservations.ServiceParams{
		Reservations: reservations.NewRepository(dbClient.Reservations()),
		Products:     products.NewRepository(dbClient.Products()),
		Stores:       storeService,
		NewID:        uuid.NewString,
		Now:          time.Now,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reservation service", err)
		os.Exit(1)
	}

	var lock cron.Lock
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		lock, err = cron.NewRedisLock(redisClient, redisClient.LockKey(lockScope(cfg.App.Env)), cfg.Reconcile.Interval+time.Minute)
		if err != nil {
			logg.Error(context.Background(), "failed to create cron lock", err)
			os.Exit(1)
		}
	}

	reconcileJob, err := cron.NewReconcileJob(cron.ReconcileJobParams{Logger: logg, Reservations: reservationService})
	if err != nil {
		logg.Error(context.Background(), "failed to create reconcile job", err)
		os.Exit(1)
	}
	flushJob, err := cron.NewFlushJob(cron.FlushJobParams{Logger: logg, Store: dbClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create flush job", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(reconcileJob, flushJob),
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Reconcile.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting cron worker")

	if err := service.RunOnce(ctx); err != nil {
		logg.Error(ctx, "initial run failed", err)
	}
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := dbClient.Close(shutdownCtx); err != nil {
		logg.Error(ctx, "error closing store", err)
	}
	logg.Info(ctx, "cron worker shut down gracefully")
}

func lockScope(env string) string {
	if env == "" {
		env = "local"
	}
	return "cron-worker:" + env
}
