package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/routine-api/internal/seed"
	"github.com/noah-isme/routine-api/internal/server"
	"github.com/noah-isme/routine-api/pkg/database"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Loads the demo routine into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logr, err := bootstrap()
		if err != nil {
			return err
		}
		defer logr.Sync() //nolint:errcheck

		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		app := server.Build(cfg, logr, db, nil)
		_, err = seed.Load(cmd.Context(), seed.Targets{
			Teachers: app.Teachers,
			Rooms:    app.Rooms,
			Sections: app.Sections,
			Courses:  app.Courses,
			Sessions: app.Schedule,
			Settings: app.Settings,
		}, logr)
		if err != nil {
			return fmt.Errorf("load demo data: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
