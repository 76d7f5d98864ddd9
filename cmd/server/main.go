package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/cashbox/internal/adapter/http"
	"github.com/iho/cashbox/internal/adapter/http/handler"
	"github.com/iho/cashbox/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/cashbox/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/cashbox/internal/adapter/repository/redis"
	"github.com/iho/cashbox/internal/infrastructure/auth"
	"github.com/iho/cashbox/internal/infrastructure/config"
	"github.com/iho/cashbox/internal/infrastructure/eventpublisher"
	"github.com/iho/cashbox/internal/infrastructure/logger"
	"github.com/iho/cashbox/internal/infrastructure/metrics"
	"github.com/iho/cashbox/internal/infrastructure/postgres"
	"github.com/iho/cashbox/internal/infrastructure/redis"
	"github.com/iho/cashbox/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// Connect to PostgreSQL
	pool, err := postgres.ConnectWithRetry(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	}, cfg.DatabaseConnectRetry, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	// Connect to Redis
	redisClient, err := redis.ConnectWithRetry(ctx, cfg.RedisURL, cfg.RedisConnectRetry, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	requestRepo := postgresRepo.NewRequestRepository(pool)
	boxRepo := postgresRepo.NewCashBoxRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	payments := postgresRepo.NewPaymentCollector()
	idGen := postgresRepo.NewULIDGenerator()

	var outboxRepo usecase.OutboxRepository = postgresRepo.NewNullOutboxRepository()
	if cfg.OutboxEnabled {
		outboxRepo = postgresRepo.NewOutboxRepository(pool)
	}

	// Initialize use cases
	requestUC := usecase.NewRequestUseCase(txManager, requestRepo, outboxRepo, auditRepo, idGen, m)
	cashBoxUC := usecase.NewCashBoxUseCase(txManager, boxRepo, requestUC, payments, outboxRepo, auditRepo, idGen, m).
		WithTotalsCache(redisRepo.NewCache(redisClient), cfg.TotalsCacheTTL).
		WithVarianceThresholds(cfg.VarianceThresholds())
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo)
	supervisorUC := usecase.NewSupervisorUseCase(cashBoxUC)
	reconciliationUC := usecase.NewReconciliationUseCase(cashBoxUC, ledgerUC, cfg.VarianceThresholds())

	// Initialize handlers
	retrier := postgresRepo.NewRetrier(log)
	routerCfg := httpAdapter.RouterConfig{
		RequestHandler:    handler.NewRequestHandler(requestUC, retrier),
		CashBoxHandler:    handler.NewCashBoxHandler(cashBoxUC, retrier),
		SupervisorHandler: handler.NewSupervisorHandler(supervisorUC, reconciliationUC, retrier),
		LedgerHandler:     handler.NewLedgerHandler(ledgerUC),
		HealthHandler:     handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:  redisRepo.NewIdempotencyStore(redisClient),
		IdempotencyTTL:    cfg.IdempotencyTTL,
		RateLimiter:       middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m),
		Metrics:           m,
		Logger:            log,
		AllowOverrides:    cfg.AllowSupervisorOverrides,
	}
	verifier, err := tokenVerifier(cfg)
	if err != nil {
		return err
	}
	if verifier != nil {
		routerCfg.TokenVerifier = verifier
		log.Info().Msg("bearer authentication enabled")
	}

	go routerCfg.RateLimiter.RunCleanup(ctx, 10*time.Minute, time.Hour)
	go reportPoolStats(ctx, pool, m, 15*time.Second)

	if cfg.OutboxEnabled {
		publisher, err := newPublisher(cfg.OutboxPublisher, redisClient, cfg.OutboxChannel, log)
		if err != nil {
			return err
		}
		worker := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: outboxRepo,
			Publisher:  publisher,
			Logger:     log.With().Str("component", "outbox").Logger(),
			Metrics:    m,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxInterval,
			Retention:  cfg.OutboxRetention,
		})
		go func() {
			if err := worker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	server := &http.Server{
		Addr:         listenAddr(cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func listenAddr(port string) string {
	return fmt.Sprintf(":%s", port)
}

// tokenVerifier returns nil when authentication is disabled.
func tokenVerifier(cfg *config.Config) (middleware.TokenVerifier, error) {
	if !cfg.AuthEnabled {
		return nil, nil
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("AUTH_ENABLED requires JWT_SECRET")
	}
	return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration), nil
}

func newPublisher(kind string, client *goredis.Client, channel string, log zerolog.Logger) (eventpublisher.Publisher, error) {
	switch kind {
	case "", "log":
		return eventpublisher.NewLogPublisher(log.With().Str("component", "events").Logger()), nil
	case "redis":
		if client == nil {
			return nil, errors.New("redis publisher requires a redis client")
		}
		return eventpublisher.NewRedisPublisher(client, channel), nil
	default:
		return nil, fmt.Errorf("unknown outbox publisher %q", kind)
	}
}

func reportPoolStats(ctx context.Context, pool *pgxpool.Pool, m *metrics.Metrics, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.DBConnections.Set(float64(pool.Stat().TotalConns()))
		}
	}
}
