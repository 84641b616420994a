package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bakhasuleiman/wesavefood-backend/api/routes"
	"github.com/bakhasuleiman/wesavefood-backend/internal/auth"
	"github.com/bakhasuleiman/wesavefood-backend/internal/cron"
	"github.com/bakhasuleiman/wesavefood-backend/internal/products"
	"github.com/bakhasuleiman/wesavefood-backend/internal/reservations"
	"github.com/bakhasuleiman/wesavefood-backend/internal/stats"
	"github.com/bakhasuleiman/wesavefood-backend/internal/stores"
	"github.com/bakhasuleiman/wesavefood-backend/internal/users"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/config"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/db"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/geocode"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/logger"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/metrics"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/redis"
	"github.com/google/uuid"
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
	if err := dbClient.Warm(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to warm collections", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	userRepo := users.NewRepository(dbClient.Users())
	storeRepo := stores.NewRepository(dbClient.Stores())
	productRepo := products.NewRepository(dbClient.Products())
	reservationRepo := reservations.NewRepository(dbClient.Reservations())

	geocoder := geocode.NewClient(cfg.Geocoder)

	storeService, err := stores.NewService(storeRepo, geocoder, uuid.NewString)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}

	verifier := auth.NewTelegramVerifier(cfg.Telegram.BotToken, cfg.Telegram.MaxAssertionAge, time.Now)
	authService, err := auth.NewService(auth.ServiceParams{
		Users:          userRepo,
		Stores:         storeService,
		Verifier:       verifier,
		PasswordConfig: cfg.Password,
		NewID:          uuid.NewString,
		Now:            time.Now,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(productRepo, storeRepo, uuid.NewString)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	reservationService, err := reservations.NewService(reservations.ServiceParams{
		Reservations: reservationRepo,
		Products:     productRepo,
		Stores:       storeService,
		NewID:        uuid.NewString,
		Now:          time.Now,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reservation service", err)
		os.Exit(1)
	}

	statsService, err := stats.NewService(productRepo, reservationRepo, storeService)
	if err != nil {
		logg.Error(context.Background(), "failed to create stats service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startJobs(ctx, cfg, logg, jobMetrics, dbClient, reservationService)

	router := routes.NewRouter(routes.RouterParams{
		Config:       cfg,
		Logger:       logg,
		DB:           dbClient,
		Redis:        redisClient,
		Metrics:      prometheus.DefaultGatherer,
		Users:        userRepo,
		AuthService:  authService,
		UserService:  userService,
		StoreService: storeService,
		Products:     productService,
		Reservations: reservationService,
		Stats:        statsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(logCtx, "server shutdown failed", err)
	}

	// Close flushes any dirty collections before the process exits.
	if err := dbClient.Close(shutdownCtx); err != nil {
		logg.Error(logCtx, "error closing store", err)
	}
	logg.Info(logCtx, "api server shut down gracefully")
}

// startJobs runs the in-process maintenance loops: the interval flush when
// the store buffers writes, and the reservation drift reconciler.
func startJobs(ctx context.Context, cfg *config.Config, logg *logger.Logger, jobMetrics *metrics.JobMetrics, dbClient *db.Client, reservationService reservations.Service) {
	if !cfg.GitHub.WriteThrough() {
		flushJob, err := cron.NewFlushJob(cron.FlushJobParams{Logger: logg, Store: dbClient})
		if err != nil {
			logg.Error(ctx, "failed to create flush job", err)
			os.Exit(1)
		}
		flushService, err := cron.NewService(cron.ServiceParams{
			Logger:   logg,
			Registry: cron.NewRegistry(flushJob),
			Metrics:  jobMetrics,
			Interval: cfg.GitHub.FlushInterval,
		})
		if err != nil {
			logg.Error(ctx, "failed to create flush service", err)
			os.Exit(1)
		}
		go flushService.Run(ctx)
	}

	reconcileJob, err := cron.NewReconcileJob(cron.ReconcileJobParams{Logger: logg, Reservations: reservationService})
	if err != nil {
		logg.Error(ctx, "failed to create reconcile job", err)
		os.Exit(1)
	}
	reconcileService, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(reconcileJob),
		Metrics:  jobMetrics,
		Interval: cfg.Reconcile.Interval,
	})
	if err != nil {
		logg.Error(ctx, "failed to create reconcile service", err)
		os.Exit(1)
	}
	go reconcileService.Run(ctx)
}
