// Package main is the entry point for the HOA portal API server.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hoaportal/internal/audit"
	"hoaportal/internal/config"
	"hoaportal/internal/handlers"
	"hoaportal/internal/logger"
	"hoaportal/internal/middleware"
	"hoaportal/internal/repositories"
	"hoaportal/internal/repositories/cache"
	"hoaportal/internal/routes"
	"hoaportal/internal/services/auth"
	"hoaportal/internal/services/notification"
	"hoaportal/internal/services/household"
	"hoaportal/internal/services/profile"
	"hoaportal/internal/services/security"
	"hoaportal/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const authRateLimit = 5

func main() {
	config.LoadEnv()
	cfg := config.Load()

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := cfg.Validate(); err != nil {
		zl.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := repositories.InitDB(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}

	redisClient := cache.NewRedisClient(cache.RedisConfigFrom(cfg))
	cacheService := cache.NewCacheService(redisClient, cfg.CacheTTL)
	if err := cacheService.HealthCheck(context.Background()); err != nil {
		zl.Fatal("failed to connect to redis", zap.Error(err))
	}
	zl.Info("connected to database and redis")

	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				zl.Warn("failed to close database connection", zap.Error(err))
			}
		}
		if err := cacheService.Close(); err != nil {
			zl.Warn("failed to close redis connection", zap.Error(err))
		}
	}()

	app := newApp(cfg, db, cacheService, zl)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zl.Error("server stopped", zap.Error(err))
		}
	}()
	zl.Info("server listening", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newApp(cfg config.Config, db *gorm.DB, cacheService *cache.CacheService, zl *zap.Logger) *fiber.App {
	store := repositories.NewStore(db, cacheService, zl.Named("store"))
	auditLog := audit.NewLogger(zl.Named("audit"), nil)

	notifier := notification.NewService(
		notification.NewMailer(cfg, zl),
		notification.NewSMSSender(cfg, zl),
		cfg.FrontendURL,
	)
	securityService := security.NewService(store, cacheService, notifier, auditLog, security.SettingsFrom(cfg), zl.Named("security"))
	authService := auth.NewService(store, securityService, auditLog, utils.TokenConfig{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}, 0, zl.Named("auth"))
	profileService := profile.NewService(store, auditLog, zl.Named("profile"))
	householdService := household.NewService(store, auditLog, zl.Named("household"))

	app := fiber.New(fiber.Config{
		AppName:      "HOA Portal API",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			zl.Error("unhandled error", zap.Error(err))
			return utils.InternalError(c, "Internal server error")
		},
	})

	routes.SetupRoutes(app, routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Profile:   handlers.NewProfileHandler(profileService),
		Security:  handlers.NewSecurityHandler(securityService),
		TwoFactor: handlers.NewTwoFactorHandler(securityService),
		Household: handlers.NewHouseholdHandler(householdService),
		Admin:     handlers.NewAdminHandler(authService, cacheService),
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"database": func(ctx context.Context) error { return repositories.Ping(ctx, db) },
			"redis":    cacheService.HealthCheck,
		}),
	}, middleware.NewAuthMiddleware(cfg.JWTSecret, store.Users(), zl.Named("auth")),
		routes.Options{AllowedOrigins: cfg.AllowedOrigins(), RateLimit: authRateLimit},
		zl.Named("http"))

	return app
}
