package history

import (
	"testing"
	"time"

	"calotrack-backend/internal/meal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meal(id string, at time.Time, calories int) *domain.Meal {
	return &domain.Meal{ID: id, UserID: "u1", MealName: id, Calories: calories, DetectionMethod: domain.DetectionManual, DateEaten: at}
}

func utc(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestAggregate_GroupsByRawDate(t *testing.T) {
	meals := []*domain.Meal{
		meal("breakfast", utc(2024, 3, 9, 8, 0), 400),
		meal("late-snack", utc(2024, 3, 10, 2, 30), 300),
		meal("dinner", utc(2024, 3, 9, 19, 0), 700),
		meal("lunch", utc(2024, 3, 10, 12, 0), 600),
	}

	days := Aggregate(meals, utc(2024, 3, 1, 0, 0), utc(2024, 3, 31, 23, 59))

	require.Len(t, days, 2)
	assert.Equal(t, "2024-03-10", days[0].Date)
	assert.Equal(t, 900, days[0].TotalCalories)
	assert.Equal(t, []string{"lunch", "late-snack"}, names(days[0].Meals))

	assert.Equal(t, "2024-03-09", days[1].Date)
	assert.Equal(t, 1100, days[1].TotalCalories)
	assert.Equal(t, []string{"dinner", "breakfast"}, names(days[1].Meals))
}

func TestAggregate_InclusiveBounds(t *testing.T) {
	start := utc(2024, 3, 1, 0, 0)
	end := utc(2024, 3, 2, 0, 0)
	meals := []*domain.Meal{
		meal("before", start.Add(-time.Nanosecond), 10),
		meal("at-start", start, 20),
		meal("at-end", end, 30),
		meal("after", end.Add(time.Nanosecond), 40),
	}

	days := Aggregate(meals, start, end)

	var all []string
	for _, d := range days {
		all = append(all, names(d.Meals)...)
	}
	assert.ElementsMatch(t, []string{"at-start", "at-end"}, all)
}

func TestAggregate_Idempotent(t *testing.T) {
	meals := []*domain.Meal{
		meal("a", utc(2024, 3, 9, 8, 0), 100),
		meal("b", utc(2024, 3, 11, 8, 0), 200),
		meal("c", utc(2024, 3, 10, 8, 0), 300),
	}
	start, end := utc(2024, 3, 1, 0, 0), utc(2024, 3, 31, 0, 0)

	first := Aggregate(meals, start, end)
	second := Aggregate(meals, start, end)

	assert.Equal(t, first, second)
	assert.Equal(t, "a", meals[0].ID, "input order must be untouched")
}

func TestAggregate_TotalsMatchMeals(t *testing.T) {
	var meals []*domain.Meal
	for i := 0; i < 20; i++ {
		meals = append(meals, meal("m", utc(2024, 3, 1+i%5, i, 0), 37*i+5))
	}

	for _, d := range Aggregate(meals, utc(2024, 1, 1, 0, 0), utc(2024, 12, 31, 0, 0)) {
		assert.Equal(t, Totals(d.Meals), d.TotalCalories, d.Date)
	}
}

func TestAggregate_Empty(t *testing.T) {
	days := Aggregate(nil, utc(2024, 3, 1, 0, 0), utc(2024, 3, 31, 0, 0))
	assert.NotNil(t, days)
	assert.Empty(t, days)
}

func TestTodayAndLogicalDay_DisagreeAfterMidnight(t *testing.T) {
	late := meal("late-snack", utc(2024, 3, 10, 2, 30), 300)

	raw := GroupByDay([]*domain.Meal{late})
	require.Len(t, raw, 1)
	assert.Equal(t, "2024-03-10", raw[0].Date)
	assert.Equal(t, "2024-03-09", LogicalDateString(late.DateEaten))
}

func TestRemainingAndProgress(t *testing.T) {
	assert.Equal(t, -500, Remaining(2000, 2500))
	assert.Equal(t, 1.0, Progress(2500, 2000))

	assert.Equal(t, 500, Remaining(2000, 1500))
	assert.InDelta(t, 0.75, Progress(1500, 2000), 0.0001)

	assert.Equal(t, 0.0, Progress(100, 0))
	assert.Equal(t, 0.0, Progress(0, 2000))
}

func TestIndexByDate(t *testing.T) {
	days := []DaySummary{{Date: "2024-03-10"}, {Date: "2024-03-09"}}
	idx := IndexByDate(days)
	assert.Len(t, idx, 2)
	assert.Equal(t, "2024-03-09", idx["2024-03-09"].Date)
}

func names(meals []*domain.Meal) []string {
	out := make([]string, 0, len(meals))
	for _, m := range meals {
		out = append(out, m.ID)
	}
	return out
}
