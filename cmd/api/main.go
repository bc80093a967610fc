// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the dvfmap HTTP API server.
//
// # Startup Sequence
//
//  1. Structured JSON logger on stdout.
//  2. Configuration from the environment (and .env when present).
//  3. PostgreSQL pool and Redis client, pinged within 30s.
//  4. Embedded migrations (users, dvf).
//  5. Token service, password hasher, Prometheus registry.
//  6. Auth and sales services behind the bearer gateway.
//  7. HTTP server until SIGINT/SIGTERM, then a graceful drain.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/taibuivan/dvfmap/data"
	"github.com/taibuivan/dvfmap/internal/api"
	"github.com/taibuivan/dvfmap/internal/auth"
	"github.com/taibuivan/dvfmap/internal/dvf"
	"github.com/taibuivan/dvfmap/internal/platform/config"
	"github.com/taibuivan/dvfmap/internal/platform/constants"
	"github.com/taibuivan/dvfmap/internal/platform/metrics"
	"github.com/taibuivan/dvfmap/internal/platform/middleware"
	"github.com/taibuivan/dvfmap/internal/platform/migration"
	pgstore "github.com/taibuivan/dvfmap/internal/platform/postgres"
	redisstore "github.com/taibuivan/dvfmap/internal/platform/redis"
	"github.com/taibuivan/dvfmap/internal/platform/sec"
)

// startupTimeout bounds the PostgreSQL and Redis connection checks.
const startupTimeout = 30 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize first so that startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	if err := run(ctx, log); err != nil {
		log.Error("service_failed", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}

// run wires every dependency and blocks until ctx is cancelled.
func run(ctx context.Context, log *slog.Logger) error {
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 1. Configuration ──────────────────────────────────────────────────
	// A missing .env is normal in containers.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("dotenv_load_failed", slog.Any("error", err))
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	startupCtx, startupCancel := context.WithTimeout(ctx, startupTimeout)
	defer startupCancel()

	// ── 2. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, pgstore.Options{
		DSN:              cfg.DatabaseURL,
		MaxConns:         cfg.DBMaxConns,
		StatementTimeout: cfg.DBStatementTimeout,
	}, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 3. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, redisstore.Options{
		URL:      cfg.RedisURL,
		PoolSize: cfg.RedisPoolSize,
	}, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	migrations := data.Migrations()
	if cfg.MigrationPath != "" {
		migrations = os.DirFS(cfg.MigrationPath)
	}
	if err := migration.RunUp(cfg.DatabaseURL, migrations, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// ── 5. Security & Metrics ─────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return fmt.Errorf("initialize jwt service: %w", err)
	}

	hasher, err := sec.NewHasher(cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("initialize password hasher: %w", err)
	}

	registry := metrics.New()

	// ── 6. Health ─────────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(
		auth.NewUserRepository(pool),
		auth.NewDenylist(rdb),
		tokenService,
		hasher,
		cfg.TokenTTL,
		log,
	)
	gateway := middleware.RequireBearer(authService, registry)

	salesRepository := dvf.NewCachedRepository(
		dvf.NewPostgresRepository(pool, registry),
		rdb,
		cfg.DVFCacheTTL,
		registry,
		log,
	)
	salesService := dvf.NewService(salesRepository, cfg.DVFBoundsMargin, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(api.Options{
		Port:    cfg.ServerPort,
		CORS:    cfg,
		Metrics: registry,
	}, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, gateway),
		Sales:     dvf.NewHandler(salesService, gateway),
	})

	return server.Run(ctx, constants.ShutdownTimeout)
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}
