package app

import (
	"context"

	"github.com/dilinamewan/Employee-Directory/internal/auth"
	"github.com/dilinamewan/Employee-Directory/internal/employee"
	"github.com/dilinamewan/Employee-Directory/internal/health"
	"github.com/dilinamewan/Employee-Directory/internal/messaging/kafka"
	"github.com/dilinamewan/Employee-Directory/internal/middleware"
	"github.com/dilinamewan/Employee-Directory/internal/rbac"
	"github.com/dilinamewan/Employee-Directory/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func registerModules(ctx context.Context, router *gin.Engine, deps dependencies) error {
	logger := deps.logger

	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(logger),
		middleware.Metrics(deps.metrics),
	)

	// --- Repositories ---
	authRepo := auth.NewRepository(deps.gormDB)
	employeeRepo := employee.NewRepository(deps.gormDB)
	outboxRepo := kafka.NewOutboxRepository(deps.db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer, rbac.DefaultPolicy(), logger)
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo, deps.rdb, auth.Options{
		Secret: deps.cfg.JWT.Secret,
		TTL:    deps.cfg.JWT.TTL,
	}, logger)
	employeeService := employee.NewService(deps.db, employeeRepo, outboxRepo, logger)

	admin := deps.cfg.Admin
	if err := authService.SeedAdmin(ctx, admin.Email, admin.Name, admin.Password); err != nil {
		return err
	}

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, deps.cfg.IsProduction(), logger)
	employeeHandler := employee.NewHandler(employeeService, deps.metrics.ListResultSize, logger)
	healthHandler := health.NewHandler([]health.Check{
		health.Postgres(deps.db),
		health.Redis(deps.rdb),
	}, logger)

	// --- Routes Registration ---
	health.RegisterRoutes(router, healthHandler)
	router.GET("/metrics", gin.WrapH(deps.metrics.Handler()))

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authService, rbacService, logger)
		employee.RegisterRoutes(api, employeeHandler, authService, rbacService, deps.rdb, logger)
	}

	logger.Info("modules registered", zap.Int("routes", len(router.Routes())))
	return nil
}
