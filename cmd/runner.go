package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotbridge/internal/auth"
	"github.com/desertthunder/spotbridge/internal/shared"
	"github.com/desertthunder/spotbridge/internal/speakers"
	"github.com/desertthunder/spotbridge/internal/spotify"
	"github.com/desertthunder/spotbridge/internal/tokens"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	store      *tokens.Store
	session    *auth.Session
	player     *spotify.Wrapper
	registry   *speakers.Registry
	reconciler *speakers.Reconciler
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Store    *tokens.Store
	Session  *auth.Session
	Player   *spotify.Wrapper
	Registry *speakers.Registry
	Logger   *log.Logger
	Output   io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Registry == nil {
		opts.Registry = &speakers.Registry{}
	}

	r := &Runner{
		config:   opts.Config,
		store:    opts.Store,
		session:  opts.Session,
		player:   opts.Player,
		registry: opts.Registry,
		logger:   opts.Logger,
		output:   opts.Output,
	}

	if opts.Player != nil {
		r.reconciler = speakers.NewReconciler(speakers.ReconcilerOpts{
			Player:   opts.Player,
			Registry: opts.Registry,
			Logger:   opts.Logger,
			Interval: time.Duration(opts.Config.PollInterval()) * time.Second,
		})
	}

	return r
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// ensureSession authenticates once per process; commands that talk to the
// remote call it before doing any work.
func (r *Runner) ensureSession(ctx context.Context) error {
	if r.session == nil || r.player == nil {
		return fmt.Errorf("%w: Spotify session not initialized", shared.ErrServiceUnavailable)
	}
	if r.session.Authenticated() {
		return nil
	}
	if !r.session.Authenticate(ctx) {
		return shared.ErrNotAuthenticated
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
