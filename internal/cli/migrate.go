package cli

import (
	"context"
	"database/sql"
	"fmt"

	"calotrack-backend/pkg/database"

	"github.com/spf13/cobra"
)

var migrateCmd = LeafCommand{
	Use:       "migrate [up|status]",
	Short:     "Apply or inspect database migrations",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "up"
		if len(args) == 1 {
			action = args[0]
		}
		return runMigrate(cmd, action, openSQL, database.MigrateUp, database.MigrationStatus)
	},
}.Build()

type migrateFunc func(ctx context.Context, db *sql.DB) error

func runMigrate(cmd *cobra.Command, action string, open func() (*sql.DB, error), up, status migrateFunc) error {
	run := up
	switch action {
	case "up":
	case "status":
		run = status
	default:
		return fmt.Errorf("unknown migrate action %q", action)
	}

	db, err := open()
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer db.Close()

	if err := run(cmd.Context(), db); err != nil {
		return err
	}
	if action == "up" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), Primary("migrations applied"))
	}
	return nil
}
