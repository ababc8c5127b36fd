package dto

import (
	"calotrack-backend/internal/history"
	"calotrack-backend/internal/meal/domain"
)

// CreateMealRequest is a manual entry. DateEaten takes RFC3339 or YYYY-MM-DD.
// Without DateEaten, ClientTime (RFC3339 with the client's offset) places the
// meal on the client's logical day.
type CreateMealRequest struct {
	MealName   string `json:"meal_name" binding:"required"`
	Calories   *int   `json:"calories" binding:"required"`
	Notes      string `json:"notes"`
	DateEaten  string `json:"date_eaten"`
	ClientTime string `json:"client_time"`
}

// UpdateMealRequest carries the editable fields; nil means unchanged
type UpdateMealRequest struct {
	MealName *string `json:"meal_name"`
	Calories *int    `json:"calories"`
	Notes    *string `json:"notes"`
}

// DetectedMeal is a classifier result the user chose to keep
type DetectedMeal struct {
	MealName   string
	Calories   int
	Confidence *int
	ImageURL   *string
	Notes      string
	ClientTime string
}

// DailyOverview is one day's meals measured against the goal
type DailyOverview struct {
	Date              string         `json:"date"`
	Meals             []*domain.Meal `json:"meals"`
	TotalCalories     int            `json:"total_calories"`
	DailyGoal         int            `json:"daily_goal"`
	RemainingCalories int            `json:"remaining_calories"`
	Progress          float64        `json:"progress"`
}

// HistoryResponse mirrors GET /api/meals/history
type HistoryResponse struct {
	History   []history.DaySummary `json:"history"`
	TotalDays int                  `json:"total_days"`
}
