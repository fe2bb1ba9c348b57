package main

import (
	"context"
	"errors"
	"os"

	"github.com/jlwilt7/lockedin-music/internal/services"
	"github.com/jlwilt7/lockedin-music/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	sessionPath, err := config.SessionPath()
	if err != nil {
		logger.Warn("could not resolve session path, sessions will not persist", "error", err)
		sessionPath = ""
	}

	auth := services.NewAuthService(config.Supabase.URL, config.Supabase.AnonKey, sessionPath, nil, logger)
	store := services.NewStorageService(config.Supabase.URL, config.Supabase.AnonKey, config.Supabase.Bucket, auth, nil)
	records := services.NewRecordsService(config.Supabase.URL, config.Supabase.AnonKey, auth, nil, 0)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Auth:    auth,
		Store:   store,
		Records: records,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "lockedin",
		Usage:    "Upload and manage your personal music library",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
