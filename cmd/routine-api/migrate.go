package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/routine-api/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Applies or rolls back the schema migrations",
}

func migrationCommand(direction database.Direction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(direction),
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logr, err := bootstrap()
			if err != nil {
				return err
			}
			defer logr.Sync() //nolint:errcheck

			if err := database.Migrate(cfg.Database, direction); err != nil {
				return err
			}
			logr.Info("migrations applied", zap.String("direction", string(direction)), zap.String("dir", cfg.Database.MigrationsDir))
			return nil
		},
	}
}

func init() {
	migrateCmd.AddCommand(migrationCommand(database.Up, "Runs the up migrations"))
	migrateCmd.AddCommand(migrationCommand(database.Down, "Rolls every migration back"))
	rootCmd.AddCommand(migrateCmd)
}
