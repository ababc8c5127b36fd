package repository

import (
	"context"
	"time"

	"calotrack-backend/internal/meal/domain"
)

// MealRepository defines data access for meals. Every list is ordered by
// date_eaten descending.
type MealRepository interface {
	Create(ctx context.Context, meal *domain.Meal) error

	// FindByID returns (nil, nil) when the meal does not exist
	FindByID(ctx context.Context, id string) (*domain.Meal, error)

	// FindInRange returns meals with start <= date_eaten <= end
	FindInRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.Meal, error)

	// FindBetween returns meals with start <= date_eaten < end
	FindBetween(ctx context.Context, userID string, start, end time.Time) ([]*domain.Meal, error)

	FindSince(ctx context.Context, userID string, since time.Time) ([]*domain.Meal, error)

	// FindRecent returns at most limit meals, newest first
	FindRecent(ctx context.Context, userID string, limit int) ([]*domain.Meal, error)

	Update(ctx context.Context, meal *domain.Meal) error
	Delete(ctx context.Context, id string) error
}
