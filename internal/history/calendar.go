package history

import "time"

// GridCells is the fixed size of a month view: 6 weeks of 7 days.
const GridCells = 42

type DayCell struct {
	Date     string `json:"date"`
	Day      int    `json:"day"`
	InMonth  bool   `json:"in_month"`
	IsToday  bool   `json:"is_today"`
	HasMeals bool   `json:"has_meals"`
}

type MonthGrid struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Cells []DayCell `json:"cells"`
}

// Leading returns how many cells before the first in-month cell.
func (g MonthGrid) Leading() int {
	for i, c := range g.Cells {
		if c.InMonth {
			return i
		}
	}
	return len(g.Cells)
}

// DaysInMonth returns the number of in-month cells.
func (g MonthGrid) DaysInMonth() int {
	n := 0
	for _, c := range g.Cells {
		if c.InMonth {
			n++
		}
	}
	return n
}

// BuildMonthGrid lays out month on a Sunday-first 42 cell grid padded with the
// neighbouring months. today is compared by raw calendar date. IsToday and
// HasMeals are only set on cells of the displayed month.
func BuildMonthGrid(year int, month time.Month, summariesByDate map[string]DaySummary, today time.Time) MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	todayKey := today.Format(DateLayout)

	cells := make([]DayCell, GridCells)
	for i := range cells {
		d := start.AddDate(0, 0, i)
		key := d.Format(DateLayout)
		cell := DayCell{
			Date:    key,
			Day:     d.Day(),
			InMonth: d.Month() == first.Month(),
		}
		if cell.InMonth {
			cell.IsToday = key == todayKey
			if s, ok := summariesByDate[key]; ok && len(s.Meals) > 0 {
				cell.HasMeals = true
			}
		}
		cells[i] = cell
	}

	return MonthGrid{Year: first.Year(), Month: int(first.Month()), Cells: cells}
}

type LookupStatus string

const (
	LookupMissing  LookupStatus = "missing"
	LookupEmpty    LookupStatus = "empty"
	LookupHasMeals LookupStatus = "has_meals"
)

// DayLookup is the result of selecting a calendar cell.
type DayLookup struct {
	Date    string       `json:"date"`
	Status  LookupStatus `json:"status"`
	Summary *DaySummary  `json:"summary,omitempty"`
}

// HasData is false both when no summary exists and when it has no meals.
func (l DayLookup) HasData() bool {
	return l.Status == LookupHasMeals
}

// SelectDay looks a day up by exact date string.
func SelectDay(summariesByDate map[string]DaySummary, date string) DayLookup {
	s, ok := summariesByDate[date]
	if !ok {
		return DayLookup{Date: date, Status: LookupMissing}
	}
	if len(s.Meals) == 0 {
		return DayLookup{Date: date, Status: LookupEmpty, Summary: &s}
	}
	return DayLookup{Date: date, Status: LookupHasMeals, Summary: &s}
}
