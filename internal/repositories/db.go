// Package repositories provides data access layer implementations.
// It handles all database operations and data persistence logic.
package repositories

import (
	"context"
	"fmt"
	"time"

	"hoaportal/internal/config"
	"hoaportal/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Residence locators are unique only when set, and the per-resident keys span
// the embedded Record columns; gorm tags cannot express either.
var uniqueIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_block_lot ON users (block, lot) WHERE block <> '' AND lot <> ''`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_unit_number ON users (unit_number) WHERE unit_number <> ''`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_household_members_user_name ON household_members (user_id, full_name)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_vehicles_user_plate ON vehicles (user_id, license_plate)`,
}

// DSN builds the postgres connection string.
func DSN(cfg config.Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
}

// InitDB connects to postgres, configures the pool and applies migrations.
func InitDB(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	// Ignore "record not found"; the repositories translate it.
	gormLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.DBConnMaxIdleTime)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("PostgreSQL connected and migrations applied", zap.String("database", cfg.DBName))
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.ProfileChangeLog{},
		&models.HouseholdMember{},
		&models.Pet{},
		&models.Vehicle{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	for _, stmt := range uniqueIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create unique index: %w", err)
		}
	}
	return nil
}

// Ping checks database connectivity.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
