package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/spotbridge/internal/auth"
	"github.com/desertthunder/spotbridge/internal/shared"
	"github.com/desertthunder/spotbridge/internal/speakers"
	"github.com/desertthunder/spotbridge/internal/spotify"
	"github.com/desertthunder/spotbridge/internal/tokens"
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

	store := tokens.NewStore(config.Storage.TokenPath, logger)
	session := auth.NewSession(auth.Opts{
		Config: config.Credentials.Spotify,
		Store:  store,
		Logger: logger,
	})

	client := spotify.NewClient("", session, nil)
	exec := spotify.NewExecutor(spotify.ExecutorOpts{
		Session:   session,
		Logger:    logger,
		RateLimit: config.Bridge.RateLimit,
	})
	player := spotify.NewWrapper(client, exec, logger)

	registry, err := speakers.NewRegistry(config.Speakers, logger)
	if err != nil {
		logger.Fatalf("invalid speaker configuration: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Store:    store,
		Session:  session,
		Player:   player,
		Registry: registry,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "spotbridge",
		Usage:    "Expose Spotify speakers as on/off automation targets",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Fatal("not authenticated with Spotify; run `spotbridge auth login` first")
		}
		logger.Fatalf("application error: %v", err)
	}
}
