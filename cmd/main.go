package main

import (
	"context"
	"errors"
	"os"

	"github.com/campuskit/campusctl/internal/api"
	"github.com/campuskit/campusctl/internal/notify"
	"github.com/campuskit/campusctl/internal/session"
	"github.com/campuskit/campusctl/internal/shared"
	"github.com/campuskit/campusctl/internal/store"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	// a broken database degrades the store to session-only behavior
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		logger.Warn("failed to open database, persistence disabled", "error", err)
		db = nil
	} else {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			logger.Warn("failed to run migrations, persistence disabled", "error", err)
			db.Close()
			db = nil
		}
	}

	st := store.New(db, logger)
	client := api.NewClient(config.API.BaseURL, nil, config.API.RateLimit, logger)
	controller := session.NewController(st, client, logger)
	bus := notify.NewBus(logger)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Store:      st,
		API:        client,
		Session:    controller,
		Bus:        bus,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "campusctl",
		Usage:    "Manage your school's branches, grades, sections, schedules, staff & exams",
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
