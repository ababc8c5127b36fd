package history

import (
	"sort"
	"time"

	"calotrack-backend/internal/meal/domain"
)

// DaySummary is the derived view of one day; never persisted.
type DaySummary struct {
	Date          string         `json:"date"`
	Meals         []*domain.Meal `json:"meals"`
	TotalCalories int            `json:"total_calories"`
}

// Aggregate keeps meals with rangeStart <= DateEaten <= rangeEnd and groups them
// by the raw UTC date of DateEaten. Days come out in first-seen order after a
// descending sort on DateEaten, so the newest day is first. meals is not modified.
func Aggregate(meals []*domain.Meal, rangeStart, rangeEnd time.Time) []DaySummary {
	inRange := make([]*domain.Meal, 0, len(meals))
	for _, m := range meals {
		if m.DateEaten.Before(rangeStart) || m.DateEaten.After(rangeEnd) {
			continue
		}
		inRange = append(inRange, m)
	}
	return GroupByDay(inRange)
}

// GroupByDay is Aggregate without the range filter, for lists that were
// already range-queried from the store.
func GroupByDay(meals []*domain.Meal) []DaySummary {
	sorted := make([]*domain.Meal, len(meals))
	copy(sorted, meals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateEaten.After(sorted[j].DateEaten)
	})

	days := make([]DaySummary, 0)
	index := make(map[string]int)
	for _, m := range sorted {
		key := m.DateEaten.UTC().Format(DateLayout)
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, DaySummary{Date: key, Meals: []*domain.Meal{}})
		}
		days[i].Meals = append(days[i].Meals, m)
		days[i].TotalCalories += m.Calories
	}
	return days
}

// Totals sums calories of a flat meal list.
func Totals(meals []*domain.Meal) int {
	total := 0
	for _, m := range meals {
		total += m.Calories
	}
	return total
}

// Remaining is goal minus total. Negative means the goal was exceeded.
func Remaining(goal, total int) int {
	return goal - total
}

// Progress is total/goal clamped to 1 for display. A non-positive goal yields 0.
func Progress(total, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	p := float64(total) / float64(goal)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// IndexByDate maps each summary's date to the summary.
func IndexByDate(days []DaySummary) map[string]DaySummary {
	out := make(map[string]DaySummary, len(days))
	for _, d := range days {
		out[d.Date] = d
	}
	return out
}
