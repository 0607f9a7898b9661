package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hugh/go-taskboard/internal/database"
	"github.com/hugh/go-taskboard/pkg/config"
	"github.com/hugh/go-taskboard/pkg/util"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "taskctl",
	Short:         "Administer a taskboard deployment",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// env is what every subcommand needs: configuration and a logger.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func loadEnv() (*env, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := util.NewLoggerTo(os.Stdout, cfg.Server.Env, cfg.Server.LogLevel)
	slog.SetDefault(logger)

	return &env{cfg: cfg, logger: logger}, nil
}

func (e *env) connect() (*gorm.DB, error) {
	return database.Connect(&e.cfg.Database, e.logger)
}
