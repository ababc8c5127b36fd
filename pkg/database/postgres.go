package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"calotrack-backend/internal/migrations"
	"calotrack-backend/pkg/config"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewPostgresConnection opens the gorm connection used by every repository.
func NewPostgresConnection(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.LogLevel == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// gooseUpContext and gooseStatusContext are seams for tests.
var (
	gooseUpContext     = goose.UpContext
	gooseStatusContext = goose.StatusContext
)

func prepareGoose() error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(logrus.WithField("component", "Migrations"))
	return goose.SetDialect("postgres")
}

// RunMigrations applies every pending embedded migration.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return MigrateUp(ctx, sqlDB)
}

func MigrateUp(ctx context.Context, sqlDB *sql.DB) error {
	if err := prepareGoose(); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// MigrationStatus logs the applied state of every migration.
func MigrationStatus(ctx context.Context, sqlDB *sql.DB) error {
	if err := prepareGoose(); err != nil {
		return err
	}
	return gooseStatusContext(ctx, sqlDB, ".")
}
