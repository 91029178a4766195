package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/spotbridge/internal/journal"
	"github.com/desertthunder/spotbridge/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file if needed and initializes the journal database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.writePlain("✓ Config file created at %s\n", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing journal database", "path", config.Storage.JournalPath)

	db, err := shared.NewDatabase(config.Storage.JournalPath)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Storage.MaxOpenConns, config.Storage.MaxIdleConns)

	if err := journal.New(db).Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize journal: %w", err)
	}

	r.writePlain("✓ Journal database ready at %s\n", config.Storage.JournalPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Fill in credentials.spotify in %s\n", configPath)
	r.writePlain("2. Run `spotbridge auth login` to link your account\n")
	r.writePlain("3. Add [[speakers]] blocks and run `spotbridge run`\n")

	return nil
}
