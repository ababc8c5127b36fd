package cli

import (
	"fmt"
	"time"

	"calotrack-backend/internal/history"

	"github.com/spf13/cobra"
)

var logicalDayCmd = LeafCommand{
	Use:   "logical-day",
	Short: "Print the logical date a timestamp counts toward",
	StrFlags: []StringFlag{
		{Name: "at", Usage: "RFC3339 timestamp with offset (default: now)"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		at, _ := cmd.Flags().GetString("at")
		return runLogicalDay(cmd, at, time.Now)
	},
}.Build()

func runLogicalDay(cmd *cobra.Command, at string, nowFunc func() time.Time) error {
	t := nowFunc()
	if at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return fmt.Errorf("invalid --at %q: expected RFC3339", at)
		}
		t = parsed
	}

	start, end := history.LogicalDayRange(t)
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "%s %s\n", Silent("Time:       "), t.Format(time.RFC3339))
	_, _ = fmt.Fprintf(w, "%s %s\n", Silent("Logical day:"), Primary(start.Format(history.DateLayout)))
	_, _ = fmt.Fprintf(w, "%s %s to %s\n", Silent("Window:     "), start.Format(time.RFC3339), end.Format(time.RFC3339))
	if t.Hour() < history.CutoffHour {
		_, _ = fmt.Fprintf(w, "%s\n", Info(fmt.Sprintf("before %02d:00, counted toward the previous day", history.CutoffHour)))
	}
	return nil
}
