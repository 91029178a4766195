package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotbridge/internal/server"
	"github.com/desertthunder/spotbridge/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the interactive OAuth flow.
//
// Starts a local HTTP server on the configured callback address, opens the
// browser for user authorization, exchanges the returned code, and saves the
// tokens through the session's store.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return fmt.Errorf("%w: Spotify session not initialized", shared.ErrServiceUnavailable)
	}

	spotifyCreds := r.config.Credentials.Spotify
	if spotifyCreds.ClientID == "" || spotifyCreds.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	state := shared.GenerateID()
	handler := server.NewCallbackHandler(r.session.OAuthConfig(), state)

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(handler)

	srvCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Listen(srvCtx, addr, router, r.logger)
	}()

	authURL := r.session.AuthURL(state)
	r.writePlain("Open this URL in your browser to link Spotify:\n\n%s\n\n", authURL)

	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warn("could not open browser automatically", "error", err)
	}

	select {
	case result := <-handler.Result():
		cancel()
		if err := result.Error(); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		r.session.AdoptToken(result.Token)
		r.writePlainln("✓ Spotify linked")
		if r.store != nil {
			r.writePlain("Tokens saved to %s\n", r.store.Path())
		}
		return nil

	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("callback server failed: %w", err)
		}
		return fmt.Errorf("%w: callback server stopped before authorization completed", shared.ErrAuthFailed)

	case <-ctx.Done():
		return ctx.Err()
	}
}

// AuthStatus reports whether a usable Spotify credential can be established.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return fmt.Errorf("%w: Spotify session not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("checking auth status")

	if r.session.Authenticate(ctx) {
		r.writePlain("Authentication: ✓ Authenticated\n")
		return nil
	}

	r.writePlain("Authentication: ✗ Not authenticated\n")
	r.writePlain("Run `spotbridge auth login`, or set credentials.spotify.auth_code in config.toml\n")
	return nil
}
