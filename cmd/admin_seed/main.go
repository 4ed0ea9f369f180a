// Command admin_seed creates the initial administrator account.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"hoaportal/internal/audit"
	"hoaportal/internal/config"
	"hoaportal/internal/logger"
	"hoaportal/internal/models"
	"hoaportal/internal/repositories"
	"hoaportal/internal/utils"
	"hoaportal/internal/validation"

	"go.uber.org/zap"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	name := config.GetEnv("ADMIN_NAME", "Administrator")
	if email == "" || password == "" {
		zl.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	v := validation.New()
	v.Email("email", email)
	v.Password("password", password)
	if err := v.Err(); err != nil {
		zl.Fatal("invalid admin credentials", zap.Error(err))
	}

	db, err := repositories.InitDB(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	ctx := context.Background()
	store := repositories.NewStore(db, nil, zl)

	_, err = store.Users().GetByEmail(ctx, email)
	if err == nil {
		zl.Info("admin user already exists", zap.String("email", email))
		return
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		zl.Fatal("failed to look up admin user", zap.Error(err))
	}

	hashed, err := utils.HashPassword(password, 0)
	if err != nil {
		zl.Fatal("failed to hash password", zap.Error(err))
	}

	admin := &models.User{
		Email:        email,
		FullName:     name,
		Password:     hashed,
		Role:         models.RoleAdmin,
		IsActive:     true,
		TokenVersion: 1,
	}
	auditLog := audit.NewLogger(zl, nil)
	err = store.WithTx(ctx, func(tx repositories.Store) error {
		if err := tx.Users().Create(ctx, admin); err != nil {
			return err
		}
		return auditLog.Record(ctx, tx.ChangeLogs(), admin.ID, models.ChangeCreate, "account", "", admin.Email, audit.RequestContext{IP: "127.0.0.1", UserAgent: "admin_seed"})
	})
	if err != nil {
		zl.Fatal("failed to create admin user", zap.Error(err))
	}

	zl.Info("admin account created", zap.String("email", email))
}
