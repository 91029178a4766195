package spotify

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotbridge/internal/shared"
	"golang.org/x/time/rate"
)

const (
	// maxAttempts is the retry ceiling per failure class: the first attempt
	// plus at most one retry (after a refresh for 401, immediately for 404).
	maxAttempts = 2

	// deviceListRetryDelay is the pause before the single device-enumeration retry.
	deviceListRetryDelay = 500 * time.Millisecond

	defaultRateLimit = 5.0
)

// Refresher renews the session credential after a 401.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Executor wraps every outbound call with a uniform retry policy keyed on
// HTTP status: 401 refreshes and retries once, 404 retries once then fails
// with [*DeviceNotFoundError], and everything else degrades to "absent" so
// callers never crash on a transient remote error.
type Executor struct {
	session    Refresher
	limiter    *rate.Limiter
	logger     *log.Logger
	retryDelay time.Duration
}

// ExecutorOpts contains configuration options for creating an Executor.
type ExecutorOpts struct {
	Session   Refresher
	Logger    *log.Logger
	RateLimit float64 // outbound requests per second, defaults to 5

	// RetryDelay overrides the device-enumeration retry pause, used in tests.
	RetryDelay time.Duration
}

// NewExecutor creates an Executor with the provided session and pacing.
func NewExecutor(opts ExecutorOpts) *Executor {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = deviceListRetryDelay
	}

	return &Executor{
		session:    opts.Session,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		logger:     opts.Logger,
		retryDelay: opts.RetryDelay,
	}
}

// Do executes op under the standard retry policy.
//
// The second return value reports whether the first holds a result; a false
// with a nil error means the operation degraded to absent. The only non-nil
// error ever returned is [*DeviceNotFoundError].
func Do[T any](ctx context.Context, e *Executor, op func(context.Context) (T, error)) (T, bool, error) {
	var zero T

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := e.limiter.Wait(ctx); err != nil {
			e.logger.Debug("request cancelled while rate limited", "error", err)
			return zero, false, nil
		}

		result, err := op(ctx)
		if err == nil {
			return result, true, nil
		}

		var apiErr *Error
		if !errors.As(err, &apiErr) {
			e.logger.Error("unexpected error on Spotify request", "error", err)
			return zero, false, nil
		}

		switch {
		case apiErr.Status == http.StatusUnauthorized && attempt < maxAttempts:
			// Expired access token. Refresh and retry once; a second 401 falls
			// through to the default branch below.
			e.logger.Debug("access token has expired, attempting token refresh")
			if rerr := e.session.Refresh(ctx); rerr != nil {
				e.logger.Error("token refresh failed, dropping request", "error", rerr)
				return zero, false, nil
			}

		case apiErr.Status == http.StatusNotFound && attempt < maxAttempts:
			// Usually transient device-list staleness on the remote side.
			e.logger.Debug("no active device reported, retrying once")

		case apiErr.Status == http.StatusNotFound:
			return zero, false, &DeviceNotFoundError{Operation: "request"}

		default:
			e.logger.Error("unexpected error on Spotify request", "status", apiErr.Status, "message", apiErr.Message)
			return zero, false, nil
		}
	}

	return zero, false, nil
}

// DoList executes a device-enumeration call under its lighter policy: any
// failure waits briefly and retries exactly once, and a second failure yields
// an empty list since "no devices" is a valid terminal outcome for that call.
func DoList[T any](ctx context.Context, e *Executor, op func(context.Context) ([]T, error)) []T {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := e.limiter.Wait(ctx); err != nil {
			e.logger.Debug("enumeration cancelled while rate limited", "error", err)
			return []T{}
		}

		items, err := op(ctx)
		if err == nil {
			return items
		}

		if attempt < maxAttempts {
			e.logger.Debug("device enumeration failed, retrying", "error", err)
			select {
			case <-ctx.Done():
				return []T{}
			case <-time.After(e.retryDelay):
			}
			continue
		}

		e.logger.Error("failed to fetch available Spotify devices", "error", err)
	}

	return []T{}
}
