package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/SscSPs/erp_finance/cmd/docs"
	portsrepo "github.com/SscSPs/erp_finance/internal/core/ports/repositories"
	"github.com/SscSPs/erp_finance/internal/core/services"
	"github.com/SscSPs/erp_finance/internal/handlers"
	"github.com/SscSPs/erp_finance/internal/middleware"
	"github.com/SscSPs/erp_finance/internal/platform/config"
	"github.com/SscSPs/erp_finance/internal/platform/locker"
	"github.com/SscSPs/erp_finance/internal/repositories/database/pgsql"
	"github.com/SscSPs/erp_finance/internal/repositories/memory"
	"github.com/SscSPs/erp_finance/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
)

// @title ERP Finance API
// @version 1.0
// @description Document totals, payments and lifecycle for the ERP finance core.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize store", slog.String("backend", cfg.StoreBackend), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	documentLocker, closeLocker, err := newLocker(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize document locker", slog.String("backend", cfg.LockBackend), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeLocker()

	serviceContainer, err := services.NewServiceContainer(cfg, store, documentLocker)
	if err != nil {
		logger.Error("Failed to initialize services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var rateLimiter *limiter.Limiter
	if cfg.RateLimit != "" {
		rateLimiter, err = middleware.NewRateLimiter(cfg.RateLimit)
		if err != nil {
			logger.Error("Failed to initialize rate limiter", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.CORS(cfg.CORSAllowedOrigins, cfg.IsProduction),
	)

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, rateLimiter)

	logger.Info("Server starting",
		slog.String("port", cfg.Port),
		slog.String("store", cfg.StoreBackend),
		slog.String("lock", cfg.LockBackend),
	)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newStore opens the configured store. The postgres store is migrated
// before it is returned.
func newStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.Store, error) {
	if cfg.StoreBackend == config.StoreMemory {
		logger.Warn("Using in-memory store; data is lost on restart")
		return memory.NewStore(), nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, err
	}
	logger.Info("Database connection pool established.")

	if err := database.RunMigrations(cfg.DatabaseURL, "file://migrations", logger); err != nil {
		dbPool.Close()
		return nil, err
	}
	return pgsql.NewStore(dbPool), nil
}

// newLocker returns the configured process-external document lock, or nil
// when payments rely on row locks alone.
func newLocker(ctx context.Context, cfg *config.Config) (portsrepo.DocumentLocker, func(), error) {
	switch cfg.LockBackend {
	case config.LockLocal:
		return locker.NewLocal(), func() {}, nil
	case config.LockRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("ping redis at %s: %w", cfg.RedisAddr, err)
		}
		redisLocker := locker.NewRedis(rdb)
		redisLocker.TTL = cfg.LockTTL
		return redisLocker, func() { _ = rdb.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}
