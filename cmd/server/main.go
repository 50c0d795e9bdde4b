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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/washledger/internal/adapter/http"
	"github.com/iho/washledger/internal/adapter/http/handler"
	"github.com/iho/washledger/internal/adapter/http/middleware"
	memoryRepo "github.com/iho/washledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/washledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/washledger/internal/adapter/repository/redis"
	"github.com/iho/washledger/internal/domain"
	"github.com/iho/washledger/internal/infrastructure/auth"
	"github.com/iho/washledger/internal/infrastructure/config"
	"github.com/iho/washledger/internal/infrastructure/logger"
	"github.com/iho/washledger/internal/infrastructure/metrics"
	"github.com/iho/washledger/internal/infrastructure/postgres"
	"github.com/iho/washledger/internal/infrastructure/redis"
	"github.com/iho/washledger/internal/usecase"
)

const limiterIdleTimeout = 10 * time.Minute

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
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go a.sweepLimiters(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// app is the wired service with the resources it must release.
type app struct {
	handler     http.Handler
	rateLimiter *middleware.RateLimiter
	closers     []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *app) sweepLimiters(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.rateLimiter.CleanupLimiters(limiterIdleTimeout)
		}
	}
}

type storage struct {
	txManager     usecase.TransactionManager
	materialRepo  usecase.MaterialRepository
	entryRepo     usecase.EntryRepository
	auditRepo     usecase.AuditRepository
	customerRepo  usecase.CustomerRepository
	eventTypeRepo usecase.EventTypeRepository
	chargeRepo    usecase.ExtraChargeRepository
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewWithRegisterer(reg)

	retrier := postgresRepo.NewRetrier(log)
	checks := map[string]handler.Check{}

	var store storage
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		pool, err := connectPostgres(ctx, cfg, retrier, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		checks["postgres"] = pool.Ping

		store = storage{
			txManager:     postgresRepo.NewTxManager(pool),
			materialRepo:  postgresRepo.NewMaterialRepository(pool),
			entryRepo:     postgresRepo.NewEntryRepository(pool),
			auditRepo:     postgresRepo.NewAuditRepository(pool),
			customerRepo:  postgresRepo.NewCustomerRepository(pool),
			eventTypeRepo: postgresRepo.NewEventTypeRepository(pool),
			chargeRepo:    postgresRepo.NewExtraChargeRepository(pool),
		}
	case config.StorageDriverMemory:
		mem := memoryRepo.NewStore()
		store = storage{
			txManager:     memoryRepo.NewTxManager(mem),
			materialRepo:  memoryRepo.NewMaterialRepository(mem),
			entryRepo:     memoryRepo.NewEntryRepository(mem),
			auditRepo:     memoryRepo.NewAuditRepository(mem),
			customerRepo:  memoryRepo.NewCustomerRepository(mem),
			eventTypeRepo: memoryRepo.NewEventTypeRepository(mem),
			chargeRepo:    memoryRepo.NewExtraChargeRepository(mem),
		}
		log.Warn().Msg("using in-memory storage; data is lost on restart")
	}

	var (
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
	)
	if cfg.RedisURL != "" {
		var client *goredis.Client
		err := retrier.Retry(ctx, "connect redis", func() error {
			var err error
			client, err = redis.NewClient(ctx, cfg.RedisURL)
			return err
		})
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }

		cache = redisRepo.NewCache(client)
		idempotencyStore = redisRepo.NewIdempotencyStore(client)
		log.Info().Msg("connected to redis")
	}

	idGen := postgresRepo.NewULIDGenerator()

	materialUC := usecase.NewMaterialUseCase(store.txManager, store.materialRepo, store.auditRepo, idGen, cache, m, log)
	cashierUC := usecase.NewCashierUseCase(store.txManager, store.materialRepo, store.entryRepo, store.auditRepo, idGen, cache, m, log)
	summaryUC := usecase.NewSummaryUseCase(store.entryRepo)
	customerUC := usecase.NewCustomerUseCase(store.txManager, store.customerRepo, store.auditRepo, idGen, m, log)
	chargeUC := usecase.NewExtraChargeUseCase(store.txManager, store.eventTypeRepo, store.chargeRepo, store.auditRepo, idGen, m, log)

	a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)

	routerCfg := httpAdapter.RouterConfig{
		MaterialHandler:  handler.NewMaterialHandler(materialUC),
		EntryHandler:     handler.NewEntryHandler(cashierUC, materialUC),
		SummaryHandler:   handler.NewSummaryHandler(summaryUC),
		CustomerHandler:  handler.NewCustomerHandler(customerUC),
		ChargeHandler:    handler.NewExtraChargeHandler(chargeUC),
		HealthHandler:    handler.NewHealthHandler(checks),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      a.rateLimiter,
		Metrics:          m,
		MetricsHandler:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Logger:           log,
	}

	if cfg.AuthEnabled {
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		routerCfg.Authenticator = middleware.NewAuthenticator(jwtManager, m)
	} else {
		routerCfg.DefaultActor = defaultActor(cfg)
		log.Warn().Str("actor", routerCfg.DefaultActor.ID).Msg("authentication disabled")
	}

	a.handler = httpAdapter.NewRouter(routerCfg)
	return a, nil
}

func connectPostgres(ctx context.Context, cfg *config.Config, retrier *postgresRepo.Retrier, log zerolog.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := retrier.Retry(ctx, "connect postgres", func() error {
		connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
		defer cancel()

		var err error
		pool, err = postgres.NewPoolWithConfig(connectCtx, postgres.PoolConfig{
			DatabaseURL: cfg.DatabaseURL,
			MaxConns:    cfg.DatabaseMaxConns,
			MinConns:    cfg.DatabaseMinConns,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")

	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	return pool, nil
}

func defaultActor(cfg *config.Config) *domain.User {
	role := domain.Role(cfg.DefaultActorRole)
	if !role.IsValid() {
		role = domain.RoleCashier
	}
	return &domain.User{ID: cfg.DefaultActorID, Name: cfg.DefaultActorID, Role: role}
}
