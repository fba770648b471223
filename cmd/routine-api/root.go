package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/routine-api/pkg/config"
	"github.com/noah-isme/routine-api/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "routine-api",
	Short: "routine-api serves and edits a conflict-checked weekly class routine",
	Long: `routine-api keeps a weekly class routine free of teacher, room and section
double-bookings, serves the published grid and free-room lookups, and exports the
routine as CSV, PDF, XLSX or SQL.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the logger shared by every command.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logr, nil
}
