package notification

import (
	"context"
	"fmt"
	"time"

	authrepo "calotrack-backend/internal/auth/repository"
	"calotrack-backend/internal/history"
	"calotrack-backend/internal/meal/domain"
	mealrepo "calotrack-backend/internal/meal/repository"
	"calotrack-backend/pkg/fcm"
	"calotrack-backend/pkg/logger"

	"github.com/sirupsen/logrus"
)

const sendTimeout = 15 * time.Second

// GoalService pushes a notification the moment a day's total passes the
// user's daily goal. It implements the meal usecase's GoalNotifier.
type GoalService struct {
	userRepo   authrepo.UserRepository
	deviceRepo authrepo.DeviceTokenRepository
	mealRepo   mealrepo.MealRepository
	sender     fcm.Sender
	log        *logrus.Entry

	// run executes the check; goroutine by default so saves never wait on FCM
	run func(func())
}

func NewGoalService(userRepo authrepo.UserRepository, deviceRepo authrepo.DeviceTokenRepository, mealRepo mealrepo.MealRepository, sender fcm.Sender) *GoalService {
	return &GoalService{
		userRepo:   userRepo,
		deviceRepo: deviceRepo,
		mealRepo:   mealRepo,
		sender:     sender,
		log:        logger.For("Notification"),
		run:        func(f func()) { go f() },
	}
}

// MealSaved checks the meal's day asynchronously. The request context is not
// used because the request may finish first.
func (s *GoalService) MealSaved(_ context.Context, meal *domain.Meal) {
	if s.sender == nil || meal == nil {
		return
	}
	m := *meal
	s.run(func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := s.checkGoal(ctx, &m); err != nil {
			s.log.WithError(err).WithField("user_id", m.UserID).Warn("goal check failed")
		}
	})
}

func (s *GoalService) checkGoal(ctx context.Context, meal *domain.Meal) error {
	user, err := s.userRepo.FindByID(ctx, meal.UserID)
	if err != nil {
		return err
	}
	if user == nil || user.DailyCalorieGoal <= 0 {
		return nil
	}

	y, m, d := meal.DateEaten.UTC().Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	meals, err := s.mealRepo.FindBetween(ctx, meal.UserID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	total := history.Totals(meals)
	before := total - meal.Calories
	if !(before <= user.DailyCalorieGoal && total > user.DailyCalorieGoal) {
		return nil
	}

	tokens, err := s.deviceRepo.GetTokensByUserID(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		s.log.WithField("user_id", user.ID).Debug("no device tokens, skipping push")
		return nil
	}
	tokenStrings := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	date := dayStart.Format(history.DateLayout)
	stale, err := s.sender.SendToDevices(ctx, tokenStrings, fcm.NotificationData{
		Title: "Daily calorie goal exceeded",
		Body:  fmt.Sprintf("%d of %d kcal logged for %s", total, user.DailyCalorieGoal, date),
		Data: map[string]string{
			"type":           "goal_exceeded",
			"date":           date,
			"total_calories": fmt.Sprintf("%d", total),
			"daily_goal":     fmt.Sprintf("%d", user.DailyCalorieGoal),
		},
		ClickAction: "/history?date=" + date,
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"date":    date,
		"total":   total,
		"devices": len(tokenStrings) - len(stale),
	}).Info("goal exceeded notification sent")

	if len(stale) > 0 {
		return s.deviceRepo.DeleteTokens(ctx, stale)
	}
	return nil
}
