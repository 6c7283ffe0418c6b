package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"

	"github.com/SscSPs/donation_ledger/internal/adapters/payment/sandbox"
	"github.com/SscSPs/donation_ledger/internal/adapters/ratecache"
	"github.com/SscSPs/donation_ledger/internal/adapters/ratesource"
	"github.com/SscSPs/donation_ledger/internal/core/ports/external"
	portsrepo "github.com/SscSPs/donation_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/donation_ledger/internal/core/services"
	"github.com/SscSPs/donation_ledger/internal/handlers"
	"github.com/SscSPs/donation_ledger/internal/middleware"
	"github.com/SscSPs/donation_ledger/internal/platform/config"
	"github.com/SscSPs/donation_ledger/internal/platform/metrics"
	"github.com/SscSPs/donation_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/donation_ledger/internal/repositories/memory"
	"github.com/SscSPs/donation_ledger/internal/utils"
	"github.com/SscSPs/donation_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Donation Ledger API
// @version 1.0
// @description Wallet ledger for a donation platform: wallets, transfers, donations, fees and exchange rates.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, closeStorage, err := setupStorage(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStorage()

	var redisClient *redis.Client
	if cfg.RateCacheBackend == config.RateCacheRedis {
		redisClient = ratecache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Error("Failed to connect to redis", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
	}

	recorder := metrics.NewRecorder()
	serviceContainer, err := services.NewServiceContainer(cfg, repos, services.Adapters{
		Gateway:     setupPaymentGateway(cfg, logger),
		RateCache:   setupRateCache(cfg, redisClient),
		RateSources: setupRateSources(cfg, logger),
		Metrics:     recorder,
	})
	if err != nil {
		logger.Error("Failed to build services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	rateLimiter, err := setupRateLimiter(cfg, redisClient)
	if err != nil {
		logger.Error("Failed to configure rate limiter", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting, analytics)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", middleware.WebhookSignatureHeader},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RateLimit(rateLimiter))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, recorder)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver), slog.String("rate_cache", cfg.RateCacheBackend))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setupStorage returns the repositories for the configured driver and a closer.
func setupStorage(cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage")
		return memory.NewStore().Repositories(), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		dbPool.Close()
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

// runMigrations applies every pending up migration over a temporary database/sql connection.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}
	sourceErr, dbErr := m.Close()
	if err := errors.Join(sourceErr, dbErr); err != nil {
		return err
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// setupPaymentGateway returns the configured gateway. Config loading already refused
// the sandbox in production unless it was explicitly allowed.
func setupPaymentGateway(cfg *config.Config, logger *slog.Logger) external.PaymentGateway {
	if cfg.IsProduction {
		logger.Warn("Sandbox payment gateway in use in production", slog.String("gateway", cfg.PaymentGateway))
	} else {
		logger.Info("Using sandbox payment gateway")
	}
	return sandbox.NewGateway()
}

func setupRateCache(cfg *config.Config, redisClient *redis.Client) external.RateCache {
	if redisClient != nil {
		return ratecache.NewRedisCache(redisClient, cfg.RateCacheTTL)
	}
	return ratecache.NewMemoryCache(cfg.RateCacheSize, cfg.RateCacheTTL)
}

// setupRateSources lists the upstream providers in fallback order. Keyed providers
// without credentials are left out.
func setupRateSources(cfg *config.Config, logger *slog.Logger) []external.RateSource {
	sources := []external.RateSource{
		ratesource.NewOpenERAPI(ratesource.Options{BaseURL: cfg.OpenERAPIBaseURL}),
	}
	if cfg.ExchangeRateAPIKey != "" {
		sources = append(sources, ratesource.NewExchangeRateAPI(ratesource.Options{BaseURL: cfg.ExchangeRateAPIURL, APIKey: cfg.ExchangeRateAPIKey}))
	}
	if cfg.CurrencyAPIKey != "" {
		sources = append(sources, ratesource.NewCurrencyAPI(ratesource.Options{BaseURL: cfg.CurrencyAPIBaseURL, APIKey: cfg.CurrencyAPIKey}))
	}
	logger.Info("Exchange rate sources configured", slog.Int("count", len(sources)))
	return sources
}

// setupRateLimiter shares counters through redis when it is available.
func setupRateLimiter(cfg *config.Config, redisClient *redis.Client) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	if redisClient != nil {
		store, err := limiterredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{Prefix: "ratelimit"})
		if err != nil {
			return nil, err
		}
		return limiter.New(store, rate), nil
	}
	return limiter.New(limitermemory.NewStore(), rate), nil
}
