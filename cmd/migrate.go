package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/csradar/csradar/internal/database"
)

// newMigrateCmd creates the 'migrate' subcommand applying schema migrations.
func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Applies pending database migrations",
		Long: `Applies the embedded schema migrations to the configured database.
Safe to run repeatedly; already-applied migrations are skipped.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, ok := runtimeFrom(cmd.Context())
			if !ok {
				return errors.New("runtime not initialized")
			}
			return database.Migrate(rt.cfg.DB.DSN, rt.logger.Named("migrate"))
		},
	}
	return cmd
}
