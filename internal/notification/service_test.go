package notification

import (
	"context"
	"testing"
	"time"

	authdomain "calotrack-backend/internal/auth/domain"
	"calotrack-backend/internal/meal/domain"
	"calotrack-backend/pkg/fcm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	user *authdomain.User
}

func (f *fakeUsers) Create(context.Context, *authdomain.User) error { return nil }
func (f *fakeUsers) FindByEmail(context.Context, string) (*authdomain.User, error) {
	return f.user, nil
}
func (f *fakeUsers) FindByID(context.Context, string) (*authdomain.User, error) { return f.user, nil }
func (f *fakeUsers) UpdateDailyGoal(context.Context, string, int) error         { return nil }
func (f *fakeUsers) SaveRefreshToken(context.Context, *authdomain.RefreshToken) error {
	return nil
}
func (f *fakeUsers) FindRefreshToken(context.Context, string) (*authdomain.RefreshToken, error) {
	return nil, nil
}
func (f *fakeUsers) DeleteRefreshToken(context.Context, string) error { return nil }

type fakeDevices struct {
	tokens  []authdomain.DeviceToken
	deleted []string
}

func (f *fakeDevices) SaveToken(context.Context, string, string, string) error { return nil }
func (f *fakeDevices) GetTokensByUserID(context.Context, string) ([]authdomain.DeviceToken, error) {
	return f.tokens, nil
}
func (f *fakeDevices) DeleteToken(context.Context, string, string) error { return nil }
func (f *fakeDevices) DeleteTokens(_ context.Context, tokens []string) error {
	f.deleted = append(f.deleted, tokens...)
	return nil
}

type fakeMeals struct {
	meals      []*domain.Meal
	start, end time.Time
}

func (f *fakeMeals) Create(context.Context, *domain.Meal) error                  { return nil }
func (f *fakeMeals) FindByID(context.Context, string) (*domain.Meal, error)      { return nil, nil }
func (f *fakeMeals) Update(context.Context, *domain.Meal) error                  { return nil }
func (f *fakeMeals) Delete(context.Context, string) error                        { return nil }
func (f *fakeMeals) FindInRange(context.Context, string, time.Time, time.Time) ([]*domain.Meal, error) {
	return f.meals, nil
}
func (f *fakeMeals) FindSince(context.Context, string, time.Time) ([]*domain.Meal, error) {
	return f.meals, nil
}
func (f *fakeMeals) FindRecent(context.Context, string, int) ([]*domain.Meal, error) {
	return f.meals, nil
}
func (f *fakeMeals) FindBetween(_ context.Context, _ string, start, end time.Time) ([]*domain.Meal, error) {
	f.start, f.end = start, end
	return f.meals, nil
}

type fakeSender struct {
	calls  int
	tokens []string
	data   fcm.NotificationData
	stale  []string
}

func (f *fakeSender) SendToDevices(_ context.Context, tokens []string, n fcm.NotificationData) ([]string, error) {
	f.calls++
	f.tokens, f.data = tokens, n
	return f.stale, nil
}

func newTestService(total []int, sender *fakeSender) (*GoalService, *fakeDevices, *fakeMeals) {
	eaten := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	meals := &fakeMeals{}
	for i, c := range total {
		meals.meals = append(meals.meals, &domain.Meal{ID: string(rune('a' + i)), UserID: "u1", Calories: c, DateEaten: eaten})
	}
	devices := &fakeDevices{tokens: []authdomain.DeviceToken{{Token: "tok-1"}, {Token: "tok-2"}}}
	s := NewGoalService(&fakeUsers{user: &authdomain.User{ID: "u1", DailyCalorieGoal: 2000}}, devices, meals, sender)
	s.run = func(f func()) { f() }
	return s, devices, meals
}

func TestMealSaved_CrossingGoalNotifies(t *testing.T) {
	sender := &fakeSender{stale: []string{"tok-2"}}
	s, devices, meals := newTestService([]int{1800, 400}, sender)

	s.MealSaved(context.Background(), &domain.Meal{UserID: "u1", Calories: 400, DateEaten: time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)})

	require.Equal(t, 1, sender.calls)
	assert.Equal(t, []string{"tok-1", "tok-2"}, sender.tokens)
	assert.Equal(t, "2200", sender.data.Data["total_calories"])
	assert.Equal(t, "2024-03-09", sender.data.Data["date"])
	assert.Equal(t, []string{"tok-2"}, devices.deleted)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), meals.start)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), meals.end)
}

func TestMealSaved_AlreadyOverGoalDoesNotRepeat(t *testing.T) {
	sender := &fakeSender{}
	s, _, _ := newTestService([]int{2100, 300}, sender)

	s.MealSaved(context.Background(), &domain.Meal{UserID: "u1", Calories: 300, DateEaten: time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC)})

	assert.Equal(t, 0, sender.calls)
}

func TestMealSaved_UnderGoal(t *testing.T) {
	sender := &fakeSender{}
	s, _, _ := newTestService([]int{500, 700}, sender)

	s.MealSaved(context.Background(), &domain.Meal{UserID: "u1", Calories: 700})

	assert.Equal(t, 0, sender.calls)
}

func TestMealSaved_NoSender(t *testing.T) {
	s := NewGoalService(&fakeUsers{}, &fakeDevices{}, &fakeMeals{}, nil)
	called := false
	s.run = func(f func()) { called = true }

	s.MealSaved(context.Background(), &domain.Meal{UserID: "u1"})
	assert.False(t, called)
}

func TestMealSaved_DayWindowUsesUTCDate(t *testing.T) {
	tests := []struct {
		name  string
		eaten time.Time
		day   time.Time
	}{
		{"offset pushes into previous UTC day", time.Date(2024, 3, 10, 1, 30, 0, 0, time.FixedZone("ICT", 7*3600)), time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"last second of the day", time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"midnight", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, meals := newTestService([]int{100}, &fakeSender{})

			s.MealSaved(context.Background(), &domain.Meal{UserID: "u1", Calories: 100, DateEaten: tt.eaten})

			assert.Equal(t, tt.day, meals.start)
			assert.Equal(t, tt.day.AddDate(0, 0, 1), meals.end)
		})
	}
}
