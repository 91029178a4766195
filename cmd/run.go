package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotbridge/internal/journal"
	"github.com/desertthunder/spotbridge/internal/shared"
	"github.com/desertthunder/spotbridge/internal/speakers"
	"github.com/urfave/cli/v3"
)

// logSink announces state changes through the logger. It stands in for a host
// automation integration, which would receive the same change-only stream.
type logSink struct {
	registry *speakers.Registry
	logger   *log.Logger
}

func (s *logSink) UpdateActive(targetID string, active bool) {
	s.logger.Info("speaker active changed", "speaker", s.name(targetID), "active", active)
}

func (s *logSink) UpdateVolume(targetID string, volume int) {
	s.logger.Info("speaker volume changed", "speaker", s.name(targetID), "volume", volume)
}

func (s *logSink) name(targetID string) string {
	if target := s.registry.Get(targetID); target != nil {
		return target.Name
	}
	return targetID
}

// Run starts the bridge daemon.
//
// Authenticates once, spawns the proactive token refresh loop, and reconciles
// speaker state on the poll interval until interrupted. Tokens are persisted
// on shutdown so the next start can skip the code grant.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}
	if err := r.ensureSession(ctx); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recorder speakers.Recorder
	if path := r.config.Storage.JournalPath; path != "" {
		db, err := shared.NewDatabase(path)
		if err != nil {
			r.logger.Warn("journal unavailable, continuing without it", "error", err)
		} else {
			defer db.Close()
			shared.ConfigureDatabase(db, r.config.Storage.MaxOpenConns, r.config.Storage.MaxIdleConns)

			j := journal.New(db)
			if err := j.Init(ctx); err != nil {
				r.logger.Warn("journal unavailable, continuing without it", "error", err)
			} else {
				recorder = j
			}
		}
	}

	reconciler := speakers.NewReconciler(speakers.ReconcilerOpts{
		Player:   r.player,
		Registry: r.registry,
		Sink:     &logSink{registry: r.registry, logger: r.logger},
		Recorder: recorder,
		Logger:   r.logger,
		Interval: time.Duration(r.config.PollInterval()) * time.Second,
	})

	go r.session.Run(ctx, time.Duration(r.config.RefreshInterval())*time.Hour)

	r.logger.Info("bridge started",
		"speakers", r.registry.Len(),
		"poll_interval", r.config.PollInterval(),
		"refresh_interval_hours", r.config.RefreshInterval())

	reconciler.Run(ctx)

	r.logger.Info("shutting down, persisting tokens")
	r.session.Persist()

	return nil
}
