package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/ledgerform/internal/adapter/http"
	"github.com/iho/ledgerform/internal/adapter/http/handler"
	"github.com/iho/ledgerform/internal/adapter/http/middleware"
	"github.com/iho/ledgerform/internal/adapter/http/view"
	postgresRepo "github.com/iho/ledgerform/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/ledgerform/internal/adapter/repository/redis"
	"github.com/iho/ledgerform/internal/infrastructure/config"
	"github.com/iho/ledgerform/internal/infrastructure/logger"
	"github.com/iho/ledgerform/internal/infrastructure/metrics"
	"github.com/iho/ledgerform/internal/infrastructure/postgres"
	"github.com/iho/ledgerform/internal/infrastructure/redis"
	"github.com/iho/ledgerform/internal/usecase"
)

const limiterIdleTimeout = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:     cfg.DatabaseURL,
		MaxConns:        cfg.DatabaseMaxConns,
		MinConns:        cfg.DatabaseMinConns,
		MaxConnLifetime: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis; without it grids are rendered on every request
	var (
		redisClient *goredis.Client
		cache       usecase.Cache
		idemStore   usecase.IdempotencyStore
		redisPinger handler.Pinger
	)
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL, cfg.RedisPoolSize)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		cache = redisRepo.NewCache(redisClient, cfg.RedisNamespace)
		idemStore = redisRepo.NewIdempotencyStore(redisClient, cfg.RedisNamespace)
		redisPinger = handler.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	} else {
		log.Warn().Msg("REDIS_URL empty, grid cache and idempotency disabled")
	}

	// Initialize repositories
	txManager, err := postgresRepo.NewTxManager(pool, cfg.DatabaseIsolation)
	if err != nil {
		return err
	}
	retrier := postgresRepo.NewRetrier(log)
	entryRepo := postgresRepo.NewJournalEntryRepository(pool)
	lineRepo := postgresRepo.NewEntryLineRepository(pool)
	allocRepo := postgresRepo.NewAllocationRepository(pool)
	refRepo := postgresRepo.NewReferenceRepository(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()

	m := metrics.New()

	// Initialize use cases
	entryUC := usecase.NewEntryUseCase(txManager, retrier, entryRepo, lineRepo, allocRepo, refRepo, idGen, m)
	allocationUC := usecase.NewAllocationUseCase(txManager, retrier, allocRepo, lineRepo, refRepo, idGen, cache, cfg.GridTTL, m)
	balanceUC := usecase.NewBalanceUseCase(txManager, retrier, lineRepo, allocRepo, refRepo, balanceRepo, m)

	renderer, err := view.New(cfg.AmountLocale())
	if err != nil {
		return err
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
		go cleanupLimiters(ctx, limiter)
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		FormHandler:      handler.NewFormHandler(entryUC, renderer, log, m),
		GridHandler:      handler.NewGridHandler(allocationUC, renderer, log),
		BalanceHandler:   handler.NewBalanceHandler(balanceUC, renderer, log),
		APIHandler:       handler.NewAPIHandler(entryUC, balanceUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisPinger),
		IdempotencyStore: idemStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      limiter,
		Metrics:          m,
		Logger:           log,
	})

	server := newHTTPServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("locale", cfg.Locale).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

func cleanupLimiters(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(limiterIdleTimeout / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.CleanupLimiters(limiterIdleTimeout)
		}
	}
}
