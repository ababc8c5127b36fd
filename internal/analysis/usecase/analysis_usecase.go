package usecase

import (
	"context"
	"time"

	"calotrack-backend/internal/common"
	"calotrack-backend/internal/meal/domain"
	"calotrack-backend/internal/meal/dto"
	mealusecase "calotrack-backend/internal/meal/usecase"
	"calotrack-backend/pkg/ai"
	"calotrack-backend/pkg/calories"
	"calotrack-backend/pkg/logger"
	"calotrack-backend/pkg/metrics"
	"calotrack-backend/pkg/storage"

	"github.com/sirupsen/logrus"
)

// Values used when no provider could identify the photo
const (
	UnrecognizedLabel    = "unrecognized"
	UnrecognizedCalories = 200
)

type analysisUsecase struct {
	classifier  ai.ImageClassifier
	table       calories.Table
	images      storage.ImageStore
	mealUsecase mealusecase.MealUsecase
	log         *logrus.Entry
}

// NewAnalysisUsecase creates the usecase. images may be nil when no bucket is configured.
func NewAnalysisUsecase(classifier ai.ImageClassifier, mealUsecase mealusecase.MealUsecase, images storage.ImageStore) AnalysisUsecase {
	return &analysisUsecase{
		classifier:  classifier,
		table:       calories.Default,
		images:      images,
		mealUsecase: mealUsecase,
		log:         logger.For("Analysis"),
	}
}

// analyze never fails: classifier errors degrade to the unrecognized defaults
func (u *analysisUsecase) analyze(ctx context.Context, image []byte) *Analysis {
	start := time.Now()
	result, err := u.classifier.ClassifyImage(ctx, image)
	if err != nil || result == nil {
		u.log.WithError(err).Warn("classification failed, using fallback values")
		metrics.RecordClassification("analysis", "fallback", time.Since(start))
		return &Analysis{FoodName: UnrecognizedLabel, Calories: UnrecognizedCalories, Confidence: 0}
	}

	return &Analysis{
		FoodName:   result.FoodLabel,
		Calories:   u.table.Estimate(result.FoodLabel),
		Confidence: result.ConfidencePercent,
		Recognized: true,
	}
}

func (u *analysisUsecase) Identify(ctx context.Context, upload ImageUpload) (*Analysis, error) {
	if len(upload.Data) == 0 {
		return nil, common.Validation("no image uploaded")
	}
	return u.analyze(ctx, upload.Data), nil
}

func (u *analysisUsecase) AnalyzeAndSave(ctx context.Context, userID string, upload ImageUpload) (*domain.Meal, *Analysis, error) {
	if len(upload.Data) == 0 {
		return nil, nil, common.Validation("no image uploaded")
	}
	analysis := u.analyze(ctx, upload.Data)

	confidence := analysis.Confidence
	meal, err := u.mealUsecase.SaveDetectedMeal(ctx, userID, dto.DetectedMeal{
		MealName:   analysis.FoodName,
		Calories:   analysis.Calories,
		Confidence: &confidence,
		ImageURL:   u.upload(ctx, userID, upload),
		ClientTime: upload.ClientTime,
	})
	if err != nil {
		return nil, nil, err
	}
	return meal, analysis, nil
}

// upload stores the photo when a bucket is configured. Failures are logged
// and the meal is saved without an image.
func (u *analysisUsecase) upload(ctx context.Context, userID string, upload ImageUpload) *string {
	if u.images == nil {
		return nil
	}
	url, err := u.images.Upload(ctx, userID, upload.Data, upload.ContentType)
	if err != nil {
		u.log.WithError(err).WithField("user_id", userID).Warn("image upload failed")
		return nil
	}
	return &url
}

func (u *analysisUsecase) Confirm(ctx context.Context, userID string, req ConfirmRequest) (*domain.Meal, error) {
	if req.Calories == nil {
		return nil, common.Validation("meal name and calories are required")
	}
	return u.mealUsecase.SaveDetectedMeal(ctx, userID, dto.DetectedMeal{
		MealName:   req.MealName,
		Calories:   *req.Calories,
		Confidence: req.Confidence,
		Notes:      req.Notes,
		ClientTime: req.ClientTime,
	})
}
