package app

import (
	"context"
	"database/sql"

	"github.com/dilinamewan/Employee-Directory/internal/config"
	"github.com/dilinamewan/Employee-Directory/internal/metrics"
	"github.com/dilinamewan/Employee-Directory/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type dependencies struct {
	cfg     *config.Config
	gormDB  *gorm.DB
	db      *sql.DB
	rdb     *redis.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// BuildApp connects infrastructure and registers every module on router.
// The returned func releases the connections. Modules receive logger
// unnamed and name themselves.
func BuildApp(ctx context.Context, cfg *config.Config, router *gin.Engine, logger *zap.Logger) (func(), error) {
	appLogger := logger.Named("app")

	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB.DSN(), cfg.DB.MaxRetries, appLogger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	appLogger.Info("database connection established")

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.DB.MaxRetries, appLogger)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	appLogger.Info("redis connection established")

	cleanup := func() {
		if err := redisClient.Close(); err != nil {
			appLogger.Warn("close redis", zap.Error(err))
		}
		if err := sqlDB.Close(); err != nil {
			appLogger.Warn("close database", zap.Error(err))
		}
	}

	deps := dependencies{
		cfg:     cfg,
		gormDB:  gormDB,
		db:      sqlDB,
		rdb:     redisClient,
		metrics: metrics.New(),
		logger:  logger,
	}

	// 2. Register Modules & Routes
	if err := registerModules(ctx, router, deps); err != nil {
		cleanup()
		return nil, err
	}
	return cleanup, nil
}
