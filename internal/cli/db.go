package cli

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	authrepo "calotrack-backend/internal/auth/repository"
	"calotrack-backend/internal/meal/domain"
	mealrepo "calotrack-backend/internal/meal/repository"
	"calotrack-backend/pkg/config"
	"calotrack-backend/pkg/database"
	"calotrack-backend/pkg/logger"

	"gorm.io/gorm"
)

func openGorm() (*gorm.DB, error) {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.Env)
	return database.NewPostgresConnection(cfg)
}

// openSQL returns the raw handle goose needs.
func openSQL() (*sql.DB, error) {
	db, err := openGorm()
	if err != nil {
		return nil, err
	}
	return db.DB()
}

// mealLoader returns a user's meals with start <= date_eaten < end.
type mealLoader func(ctx context.Context, email string, start, end time.Time) ([]*domain.Meal, error)

func loadMealsFromDB(ctx context.Context, email string, start, end time.Time) ([]*domain.Meal, error) {
	db, err := openGorm()
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	user, err := authrepo.NewUserRepository(db).FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("no user with email %q", email)
	}
	return mealrepo.NewGormMealRepository(db).FindBetween(ctx, user.ID, start, end)
}
