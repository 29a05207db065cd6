// Package cmd defines and implements the CLI commands for the csradar executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csradar/csradar/internal/config"
	"github.com/csradar/csradar/internal/logging"
	"github.com/csradar/csradar/internal/metrics"
)

var cfgFile string

// newRootCmd creates and configures the root command. Configuration and
// logging are built in PersistentPreRunE so every subcommand sees the same
// initialized globals.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csradar",
		Short: "Collects and serves competitive Counter-Strike rankings data.",
		Long: `csradar drives a headless browser through the world ranking, team and
player pages of the target site, reconciles what it finds into Postgres, and
serves the collected data over a small REST API.`,

		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// A missing .env is fine; explicit config always wins.
			_ = godotenv.Load()

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := logging.New(cfg.Logging.Development, cfg.Logging.Level)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			zap.ReplaceGlobals(logger)
			metrics.Init()

			cmd.SetContext(withRuntime(cmd.Context(), cfg, logger))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if rt, ok := runtimeFrom(cmd.Context()); ok {
				_ = rt.logger.Sync() //nolint:errcheck
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); env vars with the CSRADAR_ prefix always apply")

	cmd.AddCommand(newCollectCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
