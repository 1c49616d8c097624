package main

import (
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/repository/postgres"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status|redo|version]",
	Short:     "Apply database migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status", "redo", "version"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if err := postgres.Migrate(cmd.Context(), cfg.Postgres, args[0]); err != nil {
			log.Errorw("migration failed", "command", args[0], "error", err)
			return err
		}
		log.Infow("migration finished", "command", args[0], "dir", cfg.Postgres.MigrationsDir)
		return nil
	},
}
