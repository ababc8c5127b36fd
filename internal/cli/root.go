package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "caltrack",
	Short:         "Maintenance and inspection tool for the CaloTrack backend",
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(logicalDayCmd)
	rootCmd.AddCommand(calendarCmd)
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, Error("error: "+err.Error()))
	}
	return err
}
