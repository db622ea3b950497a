package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	dbfs "github.com/garnizeh/portfolio/db"
	"github.com/garnizeh/portfolio/api"
	"github.com/garnizeh/portfolio/internal/config"
	"github.com/garnizeh/portfolio/internal/db"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "portfolio",
	Short:         "Personal portfolio site with an operator dashboard",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config YAML file")
}

// loadConfig reads and validates the configuration and installs the JSON
// logger at the configured level.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	api.SetLogger(logger)
	return cfg, logger, nil
}

// openDB opens the configured database, applying migrations when migrate is set.
func openDB(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) (*db.DB, error) {
	database, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
			database.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return database, nil
}
