package usecase

import (
	"context"

	"calotrack-backend/internal/meal/domain"
)

// Analysis is what the classifier and calorie table made of a photo
type Analysis struct {
	FoodName   string `json:"food_name"`
	Calories   int    `json:"calories"`
	Confidence int    `json:"confidence"`
	Recognized bool   `json:"recognized"`
}

// ImageUpload is a validated food photo
type ImageUpload struct {
	Data        []byte
	ContentType string
	ClientTime  string
}

// ConfirmRequest saves a result the user reviewed, possibly after editing it.
// It carries no image URL; only AnalyzeAndSave attaches uploaded images.
type ConfirmRequest struct {
	MealName   string  `json:"meal_name" binding:"required"`
	Calories   *int    `json:"calories" binding:"required"`
	Confidence *int    `json:"confidence"`
	Notes      string  `json:"notes"`
	ClientTime string  `json:"client_time"`
}

// AnalysisUsecase turns food photos into meals
type AnalysisUsecase interface {
	// AnalyzeAndSave classifies the photo and stores it as an ai_image meal
	AnalyzeAndSave(ctx context.Context, userID string, upload ImageUpload) (*domain.Meal, *Analysis, error)

	// Identify classifies without saving
	Identify(ctx context.Context, upload ImageUpload) (*Analysis, error)

	// Confirm stores a reviewed result as an ai_image meal
	Confirm(ctx context.Context, userID string, req ConfirmRequest) (*domain.Meal, error)
}
