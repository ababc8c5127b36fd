package repository

import (
	"context"
	"errors"
	"time"

	"calotrack-backend/internal/meal/domain"

	"gorm.io/gorm"
)

type gormMealRepository struct {
	db *gorm.DB
}

// NewGormMealRepository creates a gorm backed MealRepository
func NewGormMealRepository(db *gorm.DB) MealRepository {
	return &gormMealRepository{db: db}
}

func (r *gormMealRepository) Create(ctx context.Context, meal *domain.Meal) error {
	return r.db.WithContext(ctx).Create(meal).Error
}

func (r *gormMealRepository) FindByID(ctx context.Context, id string) (*domain.Meal, error) {
	var meal domain.Meal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&meal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meal, nil
}

func (r *gormMealRepository) FindInRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.Meal, error) {
	return r.find(r.db.WithContext(ctx).
		Where("user_id = ? AND date_eaten >= ? AND date_eaten <= ?", userID, start, end))
}

func (r *gormMealRepository) FindBetween(ctx context.Context, userID string, start, end time.Time) ([]*domain.Meal, error) {
	return r.find(r.db.WithContext(ctx).
		Where("user_id = ? AND date_eaten >= ? AND date_eaten < ?", userID, start, end))
}

func (r *gormMealRepository) FindSince(ctx context.Context, userID string, since time.Time) ([]*domain.Meal, error) {
	return r.find(r.db.WithContext(ctx).
		Where("user_id = ? AND date_eaten >= ?", userID, since))
}

func (r *gormMealRepository) FindRecent(ctx context.Context, userID string, limit int) ([]*domain.Meal, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ?", userID).Limit(limit))
}

func (r *gormMealRepository) find(query *gorm.DB) ([]*domain.Meal, error) {
	var meals []*domain.Meal
	if err := query.Order("date_eaten DESC").Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

func (r *gormMealRepository) Update(ctx context.Context, meal *domain.Meal) error {
	meal.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(meal).Error
}

func (r *gormMealRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Meal{}).Error
}
