package usecase

import (
	"context"
	"time"

	"calotrack-backend/internal/history"
	"calotrack-backend/internal/meal/domain"
	"calotrack-backend/internal/meal/dto"
)

// MealUsecase defines meal logging and the day/history/calendar views
type MealUsecase interface {
	// CreateManualMeal saves a meal the user typed in
	CreateManualMeal(ctx context.Context, userID string, req dto.CreateMealRequest) (*domain.Meal, error)

	// SaveDetectedMeal saves a classifier result as an ai_image meal
	SaveDetectedMeal(ctx context.Context, userID string, meal dto.DetectedMeal) (*domain.Meal, error)

	// GetMealByID retrieves a meal (with ownership check)
	GetMealByID(ctx context.Context, userID, mealID string) (*domain.Meal, error)
	UpdateMeal(ctx context.Context, userID, mealID string, req dto.UpdateMealRequest) (*domain.Meal, error)
	DeleteMeal(ctx context.Context, userID, mealID string) error

	// GetToday buckets by the server's midnight-to-midnight day
	GetToday(ctx context.Context, userID string, dailyGoal int) (*dto.DailyOverview, error)

	// GetLogicalToday applies the 4 AM rule to the client's wall clock
	GetLogicalToday(ctx context.Context, userID string, dailyGoal int, clientTime time.Time) (*dto.DailyOverview, error)

	// GetHistory groups meals by day. Empty dates mean the last 30 days.
	GetHistory(ctx context.Context, userID, startDate, endDate string) ([]history.DaySummary, error)

	GetCalendar(ctx context.Context, userID string, year int, month time.Month, today time.Time) (*history.MonthGrid, error)
	GetCalendarDay(ctx context.Context, userID, date string) (history.DayLookup, error)

	SearchMeals(ctx context.Context, userID, query string, limit int) ([]*domain.Meal, error)

	// SetGoalNotifier sets the hook told about every saved meal
	SetGoalNotifier(notifier GoalNotifier)
}

// GoalNotifier is told after a meal has been stored
type GoalNotifier interface {
	MealSaved(ctx context.Context, meal *domain.Meal)
}
