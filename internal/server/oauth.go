package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// CallbackResult is the outcome of one authorization callback.
type CallbackResult struct {
	Token *oauth2.Token
	err   error
}

func (r *CallbackResult) Error() error {
	return r.err
}

// CallbackHandler receives the authorization code redirect, validates the
// state parameter, and exchanges the code for tokens. Only the first callback
// carrying the expected state is processed; mismatches and replays get a 400.
type CallbackHandler struct {
	config     *oauth2.Config
	state      string
	resultChan chan CallbackResult
	once       sync.Once

	mu   sync.Mutex
	seen bool
}

// NewCallbackHandler creates a handler expecting the given state token. The
// state should be random per login attempt.
func NewCallbackHandler(config *oauth2.Config, state string) *CallbackHandler {
	return &CallbackHandler{
		config:     config,
		state:      state,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the callback route.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// Result returns the channel carrying exactly one [CallbackResult]. The
// channel closes after delivery.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// A wrong state must not consume the handler or deliver a result; the
	// genuine redirect may still be on its way.
	if state := r.URL.Query().Get("state"); state != h.state {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	if h.seen {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.seen = true
	h.mu.Unlock()

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		h.send(CallbackResult{err: fmt.Errorf("authorization denied: %s", errParam)})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(context.Background(), code)
	if err != nil {
		h.send(CallbackResult{err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.send(CallbackResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

func (h *CallbackHandler) send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

const successPage = `<!DOCTYPE html>
<html>
<head>
    <title>Spotify Connected</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>&#10003; Spotify Connected</h1>
        <p>Your speakers are linked. You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
