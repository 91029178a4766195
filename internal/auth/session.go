// package auth owns the Spotify OAuth token lifecycle.
//
// A Session holds the live credential used by every outbound request. It is
// established once at startup, either from tokens saved by a previous run or
// by redeeming the configured one-time authorization code, and refreshed both
// proactively on a timer and reactively when a request sees a 401.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotbridge/internal/shared"
	"github.com/desertthunder/spotbridge/internal/tokens"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	// DefaultRefreshInterval is how often tokens are refreshed proactively,
	// independent of request failures, so they never go stale during idle periods.
	DefaultRefreshInterval = 24 * time.Hour
)

// Scopes required for reading playback state and controlling devices.
var Scopes = []string{
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
}

// Session manages the OAuth credential shared by all remote calls.
//
// The credential is guarded by a mutex: a refresh triggered by one poller's
// 401 mutates state read by concurrently in-flight requests from other
// pollers. Refresh is idempotent and monotonically advances the token, so
// callers simply read the latest value.
type Session struct {
	config   *oauth2.Config
	authCode string
	store    *tokens.Store
	logger   *log.Logger

	mu   sync.Mutex
	cred tokens.Credential
}

// Opts contains configuration options for creating a Session.
type Opts struct {
	Config shared.SpotifyConfig
	Store  *tokens.Store
	Logger *log.Logger

	// Endpoint overrides the Spotify accounts endpoints, used in tests.
	Endpoint oauth2.Endpoint
}

// NewSession creates a Session from the given Spotify credentials.
func NewSession(opts Opts) *Session {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	endpoint := opts.Endpoint
	if endpoint.TokenURL == "" {
		// Spotify expects client credentials in the Authorization header.
		// Pinning the style also keeps the oauth2 library from probing both
		// styles with a second request when a grant is rejected.
		endpoint = oauth2.Endpoint{
			AuthURL:   spotifyAuthURL,
			TokenURL:  spotifyTokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		}
	}

	redirect := opts.Config.RedirectURI
	if redirect == "" {
		redirect = "http://localhost:3000/callback"
	}

	return &Session{
		config: &oauth2.Config{
			ClientID:     opts.Config.ClientID,
			ClientSecret: opts.Config.ClientSecret,
			RedirectURL:  redirect,
			Scopes:       Scopes,
			Endpoint:     endpoint,
		},
		authCode: opts.Config.AuthCode,
		store:    opts.Store,
		logger:   opts.Logger,
	}
}

// OAuthConfig exposes the underlying oauth2 config for the interactive login
// flow, which exchanges the callback code itself.
func (s *Session) OAuthConfig() *oauth2.Config {
	return s.config
}

// AuthURL returns the authorization URL for the interactive login flow.
func (s *Session) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// AccessToken returns the current access token, or "" when unauthenticated.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred.AccessToken
}

// Authenticated reports whether the session holds a usable credential.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred.Usable()
}

// Authenticate establishes the session credential.
//
// Saved tokens are tried first and validated with an immediate refresh; if the
// remote rejects them the session falls back to the code grant exchange.
// Returns false when neither path yields a credential. Network and API errors
// are logged, never propagated as panics.
func (s *Session) Authenticate(ctx context.Context) bool {
	if saved := s.store.Load(); saved != nil {
		s.install(*saved)

		if err := s.Refresh(ctx); err != nil {
			// Saved tokens are stale or revoked, fall through to the code grant.
			s.logger.Debug("saved tokens rejected", "error", err)
			s.install(tokens.Credential{})
		} else {
			s.logger.Debug("spotify auth success using saved tokens")
			return true
		}
	}

	if err := s.authWithCodeGrant(ctx); err != nil {
		s.logger.Error(
			"could not fetch saved Spotify tokens nor authenticate using the code grant flow; " +
				"redo the manual login step, provide the new auth code in the config, then try again")
		return false
	}

	s.logger.Debug("spotify auth success using authorization code flow")
	return true
}

// AdoptToken installs a token obtained outside the session (the interactive
// login flow) and persists it.
func (s *Session) AdoptToken(tok *oauth2.Token) {
	s.install(tokens.Credential{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken})
	s.Persist()
}

// Refresh exchanges the refresh token for a new access token.
//
// On success the in-memory access token is replaced and the pair is persisted.
// Refresh tokens are long-lived and usually not rotated; when the server does
// return a new one it replaces the old. Failure is returned, not thrown: the
// caller decides whether to fall back or fail its own operation.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	refreshToken := s.cred.RefreshToken
	s.mu.Unlock()

	if refreshToken == "" {
		return shared.ErrNoRefreshToken
	}

	src := s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		s.logger.Debug("could not refresh access token", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	if tok.RefreshToken == "" {
		tok.RefreshToken = refreshToken
	}

	s.install(tokens.Credential{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken})
	s.logger.Debug("access token refreshed")
	s.Persist()

	return nil
}

// Persist writes the current credential through the token store.
// Called after every successful refresh and at shutdown; failures are logged
// by the store and do not interrupt the caller.
func (s *Session) Persist() {
	s.mu.Lock()
	cred := s.cred
	s.mu.Unlock()

	if !cred.Usable() {
		return
	}

	_ = s.store.Save(cred)
}

// Run refreshes the token on a fixed interval until ctx is cancelled.
func (s *Session) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.logger.Warn("scheduled token refresh failed", "error", err)
			}
		}
	}
}

func (s *Session) authWithCodeGrant(ctx context.Context) error {
	s.logger.Debug("attempting the code grant authorization flow")

	if s.authCode == "" {
		return fmt.Errorf("%w: no auth code configured", shared.ErrAuthFailed)
	}

	tok, err := s.config.Exchange(ctx, s.authCode)
	if err != nil {
		s.logger.Error("could not authorize Spotify", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	s.install(tokens.Credential{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken})
	s.Persist()

	return nil
}

func (s *Session) install(cred tokens.Credential) {
	s.mu.Lock()
	s.cred = cred
	s.mu.Unlock()
}
