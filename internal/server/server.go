// package server hosts the short-lived HTTP surface used during interactive
// login. A temporary listener accepts the authorization callback on localhost
// and shuts down once the token exchange resolves.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Middleware wraps a handler with additional behavior such as request logging.
type Middleware func(http.Handler) http.Handler

// Handler is a routable handler that declares its own route patterns, so a
// handler can encapsulate every endpoint it owns.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router registers handlers and middleware and serves as the root handler.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// Logging returns middleware that records each request at debug level.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("handled request",
				"method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}

// Listen serves the router on addr until ctx is cancelled, then shuts the
// server down gracefully. The callback flow cancels ctx as soon as a result
// arrives, so the listener rarely lives longer than one request.
func Listen(ctx context.Context, addr string, router Router, logger *log.Logger) error {
	srv := &http.Server{Addr: addr, Handler: router}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("callback server did not shut down cleanly", "error", err)
		}
		return nil
	}
}
