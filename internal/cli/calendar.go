package cli

import (
	"fmt"
	"strings"
	"time"

	"calotrack-backend/internal/history"

	"github.com/spf13/cobra"
)

var calendarCmd = LeafCommand{
	Use:   "calendar",
	Short: "Print a month grid, optionally marking days with logged meals",
	StrFlags: []StringFlag{
		{Name: "month", Usage: "month to show as YYYY-MM (default: current month)"},
		{Name: "email", Usage: "mark days on which this user logged meals"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		month, _ := cmd.Flags().GetString("month")
		email, _ := cmd.Flags().GetString("email")
		return runCalendar(cmd, month, email, loadMealsFromDB, time.Now)
	},
}.Build()

var weekdayHeader = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

func runCalendar(cmd *cobra.Command, month, email string, load mealLoader, nowFunc func() time.Time) error {
	now := nowFunc()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if month != "" {
		parsed, err := time.ParseInLocation("2006-01", month, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid --month %q: expected YYYY-MM", month)
		}
		first = parsed
	}

	summaries := map[string]history.DaySummary{}
	if email != "" {
		start := first.AddDate(0, 0, -int(first.Weekday()))
		meals, err := load(cmd.Context(), email, start, start.AddDate(0, 0, history.GridCells))
		if err != nil {
			return err
		}
		summaries = history.IndexByDate(history.GroupByDay(meals))
	}

	grid := history.BuildMonthGrid(first.Year(), first.Month(), summaries, now)
	w := cmd.OutOrStdout()

	_, _ = fmt.Fprintln(w, Primary(first.Format("January 2006")))
	_, _ = fmt.Fprintln(w, Silent(strings.Join(weekdayHeader, " ")))

	mealDays, calories := 0, 0
	for row := 0; row < history.GridCells/7; row++ {
		cells := make([]string, 7)
		for col := range cells {
			cell := grid.Cells[row*7+col]
			cells[col] = renderCell(cell)
			if cell.HasMeals {
				mealDays++
				calories += summaries[cell.Date].TotalCalories
			}
		}
		_, _ = fmt.Fprintln(w, strings.Join(cells, " "))
	}

	if email != "" {
		_, _ = fmt.Fprintf(w, "\n%s %d days, %d kcal\n", Silent("Logged:"), mealDays, calories)
	}
	return nil
}

func renderCell(cell history.DayCell) string {
	text := fmt.Sprintf("%2d", cell.Day)
	switch {
	case !cell.InMonth:
		return Silent(text)
	case cell.HasMeals:
		return Primary(text)
	case cell.IsToday:
		return Info(text)
	default:
		return text
	}
}
