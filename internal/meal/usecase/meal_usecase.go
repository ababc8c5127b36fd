package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"calotrack-backend/internal/common"
	"calotrack-backend/internal/history"
	"calotrack-backend/internal/meal/domain"
	"calotrack-backend/internal/meal/dto"
	"calotrack-backend/internal/meal/repository"
	"calotrack-backend/pkg/fuzzy"
	"calotrack-backend/pkg/logger"
	"calotrack-backend/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultHistoryDays = 30
	searchScanLimit    = 500
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// mealUsecase implements MealUsecase interface
type mealUsecase struct {
	mealRepo repository.MealRepository
	notifier GoalNotifier
	log      *logrus.Entry
	now      func() time.Time
}

// NewMealUsecase creates a new instance of mealUsecase
func NewMealUsecase(mealRepo repository.MealRepository) MealUsecase {
	return &mealUsecase{
		mealRepo: mealRepo,
		log:      logger.For("MealUsecase"),
		now:      time.Now,
	}
}

func (u *mealUsecase) SetGoalNotifier(notifier GoalNotifier) {
	u.notifier = notifier
}

func (u *mealUsecase) CreateManualMeal(ctx context.Context, userID string, req dto.CreateMealRequest) (*domain.Meal, error) {
	name := strings.TrimSpace(req.MealName)
	if name == "" || req.Calories == nil {
		return nil, common.Validation("meal name and calories are required")
	}
	if *req.Calories < 0 {
		return nil, common.Validation("calories must be positive")
	}

	eaten, err := u.resolveDateEaten(req.DateEaten, req.ClientTime)
	if err != nil {
		return nil, err
	}

	meal := &domain.Meal{
		MealName:        name,
		Calories:        *req.Calories,
		DetectionMethod: domain.DetectionManual,
		Notes:           req.Notes,
		DateEaten:       eaten,
	}
	return u.create(ctx, userID, meal)
}

func (u *mealUsecase) SaveDetectedMeal(ctx context.Context, userID string, d dto.DetectedMeal) (*domain.Meal, error) {
	name := strings.TrimSpace(d.MealName)
	if name == "" {
		return nil, common.Validation("meal name is required")
	}
	if d.Calories < 0 {
		return nil, common.Validation("calories must be positive")
	}
	if d.Confidence != nil && (*d.Confidence < 0 || *d.Confidence > 100) {
		return nil, common.Validation("confidence must be between 0 and 100")
	}

	eaten, err := u.resolveDateEaten("", d.ClientTime)
	if err != nil {
		return nil, err
	}

	meal := &domain.Meal{
		MealName:        name,
		Calories:        d.Calories,
		DetectionMethod: domain.DetectionAIImage,
		ConfidenceScore: d.Confidence,
		ImageURL:        d.ImageURL,
		Notes:           d.Notes,
		DateEaten:       eaten,
	}
	return u.create(ctx, userID, meal)
}

func (u *mealUsecase) create(ctx context.Context, userID string, meal *domain.Meal) (*domain.Meal, error) {
	now := u.now()
	meal.ID = uuid.New().String()
	meal.UserID = userID
	meal.CreatedAt = now
	meal.UpdatedAt = now

	if err := u.mealRepo.Create(ctx, meal); err != nil {
		return nil, err
	}
	metrics.RecordMealSaved(string(meal.DetectionMethod))
	u.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"meal_id":  meal.ID,
		"method":   meal.DetectionMethod,
		"calories": meal.Calories,
	}).Info("meal saved")

	if u.notifier != nil {
		u.notifier.MealSaved(ctx, meal)
	}
	return meal, nil
}

// resolveDateEaten picks the stored timestamp: an explicit date wins, then the
// logical noon of the client's clock, then now.
func (u *mealUsecase) resolveDateEaten(dateEaten, clientTime string) (time.Time, error) {
	if dateEaten != "" {
		if t, err := time.Parse(time.RFC3339, dateEaten); err == nil {
			return t.UTC(), nil
		}
		d, err := history.ParseDate(dateEaten)
		if err != nil {
			return time.Time{}, common.Validation("date_eaten must be RFC3339 or YYYY-MM-DD")
		}
		return d.Add(12 * time.Hour), nil
	}
	if clientTime != "" {
		t, err := time.Parse(time.RFC3339, clientTime)
		if err != nil {
			return time.Time{}, common.Validation("client_time must be RFC3339")
		}
		return history.LogicalNoon(t), nil
	}
	return u.now().UTC(), nil
}

func (u *mealUsecase) GetMealByID(ctx context.Context, userID, mealID string) (*domain.Meal, error) {
	meal, err := u.mealRepo.FindByID(ctx, mealID)
	if err != nil {
		return nil, err
	}
	if meal == nil {
		return nil, common.NotFound("meal not found")
	}
	if !meal.OwnedBy(userID) {
		return nil, fmt.Errorf("%w: meal belongs to another user", common.ErrForbidden)
	}
	return meal, nil
}

func (u *mealUsecase) UpdateMeal(ctx context.Context, userID, mealID string, req dto.UpdateMealRequest) (*domain.Meal, error) {
	meal, err := u.GetMealByID(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}

	if req.MealName != nil {
		name := strings.TrimSpace(*req.MealName)
		if name == "" {
			return nil, common.Validation("meal name cannot be empty")
		}
		meal.MealName = name
	}
	if req.Calories != nil {
		if *req.Calories < 0 {
			return nil, common.Validation("calories must be positive")
		}
		meal.Calories = *req.Calories
	}
	if req.Notes != nil {
		meal.Notes = *req.Notes
	}

	if err := u.mealRepo.Update(ctx, meal); err != nil {
		return nil, err
	}
	return meal, nil
}

func (u *mealUsecase) DeleteMeal(ctx context.Context, userID, mealID string) error {
	meal, err := u.GetMealByID(ctx, userID, mealID)
	if err != nil {
		return err
	}
	if err := u.mealRepo.Delete(ctx, meal.ID); err != nil {
		return err
	}
	u.log.WithFields(logrus.Fields{"user_id": userID, "meal_id": meal.ID}).Info("meal deleted")
	return nil
}

func (u *mealUsecase) GetToday(ctx context.Context, userID string, dailyGoal int) (*dto.DailyOverview, error) {
	now := u.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)

	meals, err := u.mealRepo.FindInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return overview(start.Format(history.DateLayout), meals, dailyGoal), nil
}

func (u *mealUsecase) GetLogicalToday(ctx context.Context, userID string, dailyGoal int, clientTime time.Time) (*dto.DailyOverview, error) {
	start, end := history.LogicalDayRange(clientTime)

	meals, err := u.mealRepo.FindBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return overview(start.Format(history.DateLayout), meals, dailyGoal), nil
}

func overview(date string, meals []*domain.Meal, goal int) *dto.DailyOverview {
	if meals == nil {
		meals = []*domain.Meal{}
	}
	total := history.Totals(meals)
	return &dto.DailyOverview{
		Date:              date,
		Meals:             meals,
		TotalCalories:     total,
		DailyGoal:         goal,
		RemainingCalories: history.Remaining(goal, total),
		Progress:          history.Progress(total, goal),
	}
}

func (u *mealUsecase) GetHistory(ctx context.Context, userID, startDate, endDate string) ([]history.DaySummary, error) {
	if startDate == "" || endDate == "" {
		since := u.now().AddDate(0, 0, -defaultHistoryDays)
		meals, err := u.mealRepo.FindSince(ctx, userID, since)
		if err != nil {
			return nil, err
		}
		return history.GroupByDay(meals), nil
	}

	start, err := parseBound(startDate)
	if err != nil {
		return nil, common.Validation("startDate: %v", err)
	}
	end, err := parseBound(endDate)
	if err != nil {
		return nil, common.Validation("endDate: %v", err)
	}
	if end.Before(start) {
		return nil, common.Validation("endDate must not be before startDate")
	}

	meals, err := u.mealRepo.FindInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return history.Aggregate(meals, start, end), nil
}

// parseBound accepts YYYY-MM-DD (midnight UTC) or RFC3339
func parseBound(s string) (time.Time, error) {
	if d, err := history.ParseDate(s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD or RFC3339, got %q", s)
	}
	return t, nil
}

func (u *mealUsecase) GetCalendar(ctx context.Context, userID string, year int, month time.Month, today time.Time) (*history.MonthGrid, error) {
	if month < time.January || month > time.December {
		return nil, common.Validation("month must be between 1 and 12")
	}

	// Cover every visible cell, padding days included.
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := start.AddDate(0, 0, history.GridCells)

	meals, err := u.mealRepo.FindBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	grid := history.BuildMonthGrid(year, month, history.IndexByDate(history.GroupByDay(meals)), today)
	return &grid, nil
}

func (u *mealUsecase) GetCalendarDay(ctx context.Context, userID, date string) (history.DayLookup, error) {
	day, err := history.ParseDate(date)
	if err != nil {
		return history.DayLookup{}, common.Validation("date must be YYYY-MM-DD")
	}

	meals, err := u.mealRepo.FindBetween(ctx, userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return history.DayLookup{}, err
	}
	return history.SelectDay(history.IndexByDate(history.GroupByDay(meals)), date), nil
}

func (u *mealUsecase) SearchMeals(ctx context.Context, userID, query string, limit int) ([]*domain.Meal, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, common.Validation("search query is required")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)

	meals, err := u.mealRepo.FindRecent(ctx, userID, searchScanLimit)
	if err != nil {
		return nil, err
	}

	type scored struct {
		meal  *domain.Meal
		score float64
	}
	var hits []scored
	for _, m := range meals {
		if fuzzy.MatchMeal(query, m.MealName, m.Notes) {
			hits = append(hits, scored{meal: m, score: fuzzy.Score(query, m.MealName, m.Notes)})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	results := make([]*domain.Meal, 0, min(limit, len(hits)))
	for i := 0; i < len(hits) && i < limit; i++ {
		results = append(results, hits[i].meal)
	}
	return results, nil
}
