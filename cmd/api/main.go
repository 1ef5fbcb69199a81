// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

// Command api is the entry point for the Inkwell HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/duybui/inkwell/internal/account"
	"github.com/duybui/inkwell/internal/api"
	"github.com/duybui/inkwell/internal/auth"
	"github.com/duybui/inkwell/internal/comment"
	"github.com/duybui/inkwell/internal/favorite"
	"github.com/duybui/inkwell/internal/platform/config"
	"github.com/duybui/inkwell/internal/platform/constants"
	"github.com/duybui/inkwell/internal/platform/email"
	"github.com/duybui/inkwell/internal/platform/migration"
	pgstore "github.com/duybui/inkwell/internal/platform/postgres"
	redisstore "github.com/duybui/inkwell/internal/platform/redis"
	"github.com/duybui/inkwell/internal/platform/sec"
	"github.com/duybui/inkwell/internal/post"
)

// refreshTokenSweepInterval is how often expired refresh-token rows are purged.
const refreshTokenSweepInterval = 1 * time.Hour

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "inkwell"))
	slog.SetDefault(log)

	log.Info("[Inkwell] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "inkwell"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security Primitives ────────────────────────────────────────────
	codec, err := sec.NewCodec(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL(),
		constants.AuthIssuer,
	)
	must(log, err, "initialize token codec")

	hasher := sec.NewHasher(cfg.BcryptCost, cfg.HashMaxConcurrent)

	// ── 7. Password-Reset Delivery ────────────────────────────────────────
	// Mailgun when credentials are present, log-only delivery otherwise.
	var mailer email.Sender
	if cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" {
		mailgunSender, err := email.NewMailgunSender(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailFromAddress, cfg.ResetLinkBaseURL)
		must(log, err, "initialize mailgun sender")
		mailer = mailgunSender
		log.Info("reset_delivery_configured", slog.String("sender", "mailgun"))
	} else {
		mailer = email.NewLogSender(log)
		log.Warn("reset_delivery_configured", slog.String("sender", "log"))
	}

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	refreshTokenRepository := auth.NewRefreshTokenRepository(pool)
	resetTokenRepository := auth.NewResetTokenRepository(rdb)
	authService := auth.NewService(
		userRepository,
		refreshTokenRepository,
		resetTokenRepository,
		hasher,
		codec,
		mailer,
		cfg.ResetTokenTTL(),
	)
	authHandler := auth.NewHandler(authService)

	postRepository := post.NewPostRepository(pool)
	postService := post.NewService(postRepository)
	postHandler := post.NewHandler(postService)

	commentRepository := comment.NewCommentRepository(pool)
	commentService := comment.NewService(commentRepository, postService)
	commentHandler := comment.NewHandler(commentService)

	favoriteRepository := favorite.NewFavoriteRepository(pool)
	favoriteService := favorite.NewService(favoriteRepository, postService)
	favoriteHandler := favorite.NewHandler(favoriteService)

	accountService := account.NewService(userRepository, postService)
	accountHandler := account.NewHandler(accountService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Post:      postHandler,
		Comment:   commentHandler,
		Favorite:  favoriteHandler,
		Account:   accountHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, codec, handlers)

	// ── 11. Background Sweeper ────────────────────────────────────────────
	// Expired refresh tokens are dead weight in the table. Rotation already
	// handles correctness; this just keeps the table small.
	go sweepExpiredRefreshTokens(serverCtx, refreshTokenRepository, log)

	// ── 12. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// sweepExpiredRefreshTokens periodically purges expired refresh-token rows
// until ctx is cancelled.
func sweepExpiredRefreshTokens(ctx context.Context, repository auth.RefreshTokenRepository, log *slog.Logger) {
	ticker := time.NewTicker(refreshTokenSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := repository.DeleteExpired(ctx); err != nil {
				log.Error("refresh_token_sweep_failed", slog.Any("error", err))
			}
		}
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
