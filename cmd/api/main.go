// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the PoetPiece HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Load the JWT key pair.
//  7. Start the retry guard and the rate limiter sweeps.
//  8. Wire repositories, services and handlers.
//  9. Start HTTP server with graceful shutdown.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/poetpiece/internal/api"
	"github.com/taibuivan/poetpiece/internal/core/category"
	"github.com/taibuivan/poetpiece/internal/core/notification"
	"github.com/taibuivan/poetpiece/internal/core/poem"
	"github.com/taibuivan/poetpiece/internal/core/poet"
	"github.com/taibuivan/poetpiece/internal/core/resource"
	"github.com/taibuivan/poetpiece/internal/platform/config"
	"github.com/taibuivan/poetpiece/internal/platform/constants"
	"github.com/taibuivan/poetpiece/internal/platform/middleware"
	"github.com/taibuivan/poetpiece/internal/platform/migration"
	pgstore "github.com/taibuivan/poetpiece/internal/platform/postgres"
	redisstore "github.com/taibuivan/poetpiece/internal/platform/redis"
	"github.com/taibuivan/poetpiece/internal/platform/retryguard"
	"github.com/taibuivan/poetpiece/internal/platform/sec"
	"github.com/taibuivan/poetpiece/internal/users/account"
	"github.com/taibuivan/poetpiece/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Int("poems_per_page", cfg.PoemsPerPage),
		slog.Int("max_poets", cfg.MaxPoets),
	)

	// Root context for background workers; cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Tokens ─────────────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Background components ──────────────────────────────────────────
	guard := retryguard.New(retryguard.Options{
		Retention:     cfg.RetryGuardRetention,
		SweepInterval: cfg.RetryGuardSweepInterval,
		Logger:        log,
	})
	guard.Start(rootCtx)

	limiter := middleware.NewRateLimiter(constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)
	go limiter.Run(rootCtx)

	// ── 8. Domain wiring ──────────────────────────────────────────────────
	notificationRepository := notification.NewPostgresRepository(pool)
	notifier := notification.NewNotifier(notificationRepository, log, cfg.NotifyTimeout)

	poetRepository := poet.NewPostgresRepository(pool)
	poemService := poem.NewService(poem.NewPostgresRepository(pool), poet.NewDirectory(poetRepository), notifier, log)
	poetService := poet.NewService(poetRepository, poemService, notifier, log, cfg.MaxPoets)

	sessionRepository := auth.NewSessionRepository(rdb)
	authService := auth.NewService(auth.NewUserRepository(pool), sessionRepository, tokens, notifier, log)
	accountService := account.NewService(account.NewPostgresRepository(pool), poetRepository, sessionRepository, notifier, log)

	categoryService := category.NewService(category.NewPostgresRepository(pool), notifier, log)
	resourceService := resource.NewService(resource.NewPostgresRepository(pool), notifier, log)
	notificationService := notification.NewService(notificationRepository, log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		"postgres": func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		"redis":    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(cfg, log, api.Middlewares{
		Verifier:    tokens,
		Actors:      poetService,
		RateLimiter: limiter,
		RetryGuard:  guard,
	}, api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Auth:         auth.NewHandler(authService),
		Account:      account.NewHandler(accountService),
		Poet:         poet.NewHandler(poetService, cfg.PoemsPerPage),
		Poem:         poem.NewHandler(poemService, cfg.PoemsPerPage),
		Category:     category.NewHandler(categoryService),
		Resource:     resource.NewHandler(resourceService),
		Notification: notification.NewHandler(notificationService),
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	shutdownErr := server.Shutdown(constants.ShutdownTimeout)

	// Drain background work before the pool closes.
	guard.Stop()
	rootCancel()
	notifier.Wait()

	if shutdownErr != nil {
		log.Error("shutdown_error", slog.Any("error", shutdownErr))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(logger)
	return logger
}

// must logs a startup failure and exits. Only used during wiring.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
