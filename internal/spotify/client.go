package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// TokenProvider supplies the bearer token for outbound requests.
// The auth session implements it; requests always read the latest token.
type TokenProvider interface {
	AccessToken() string
}

// Client is a thin HTTP client for the player endpoints. It reports failures
// as status-coded [*Error] values and performs no retries of its own; the
// retry policy lives in [Executor].
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    TokenProvider
}

// NewClient creates a Client. An empty baseURL selects the production API and
// a nil httpClient falls back to [http.DefaultClient].
func NewClient(baseURL string, session TokenProvider, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{baseURL: baseURL, httpClient: httpClient, session: session}
}

// doRequest performs one authenticated request and decodes a 2xx JSON body
// into result when provided. Returns the response status code alongside any
// error so callers can distinguish 200 from 204.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body, result any) (int, error) {
	apiURL := c.baseURL + endpoint

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.session.AccessToken())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode}

		var envelope struct {
			Error Error `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Message != "" {
			apiErr.Message = envelope.Error.Message
		}

		return resp.StatusCode, apiErr
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// PlaybackState fetches the account's current playback state.
//
// A 204 yields a snapshot whose StatusCode is 204 and whose remaining fields
// are zero, matching "nothing is playing anywhere".
func (c *Client) PlaybackState(ctx context.Context) (*PlaybackSnapshot, error) {
	var snap PlaybackSnapshot

	status, err := c.doRequest(ctx, http.MethodGet, "/me/player", nil, &snap)
	if err != nil {
		return nil, err
	}

	snap.StatusCode = status
	return &snap, nil
}

// Devices lists the devices currently known to the account.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	var response struct {
		Devices []Device `json:"devices"`
	}

	if _, err := c.doRequest(ctx, http.MethodGet, "/me/player/devices", nil, &response); err != nil {
		return nil, err
	}

	return response.Devices, nil
}

// Play starts or resumes playback on the given device. A non-empty contextURI
// selects the collection (playlist, album) to play from.
func (c *Client) Play(ctx context.Context, deviceID, contextURI string) error {
	endpoint := "/me/player/play"
	if deviceID != "" {
		endpoint += "?device_id=" + url.QueryEscape(deviceID)
	}

	var body any
	if contextURI != "" {
		body = map[string]string{"context_uri": contextURI}
	}

	_, err := c.doRequest(ctx, http.MethodPut, endpoint, body, nil)
	return err
}

// Pause pauses playback on the given device.
func (c *Client) Pause(ctx context.Context, deviceID string) error {
	endpoint := "/me/player/pause"
	if deviceID != "" {
		endpoint += "?device_id=" + url.QueryEscape(deviceID)
	}

	_, err := c.doRequest(ctx, http.MethodPut, endpoint, nil, nil)
	return err
}

// SetVolume sets the playback volume (0-100) on the given device.
func (c *Client) SetVolume(ctx context.Context, percent int, deviceID string) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	query := url.Values{"volume_percent": {strconv.Itoa(percent)}}
	if deviceID != "" {
		query.Set("device_id", deviceID)
	}

	_, err := c.doRequest(ctx, http.MethodPut, "/me/player/volume?"+query.Encode(), nil, nil)
	return err
}

// SetShuffle toggles shuffle on the given device.
func (c *Client) SetShuffle(ctx context.Context, state bool, deviceID string) error {
	query := url.Values{"state": {strconv.FormatBool(state)}}
	if deviceID != "" {
		query.Set("device_id", deviceID)
	}

	_, err := c.doRequest(ctx, http.MethodPut, "/me/player/shuffle?"+query.Encode(), nil, nil)
	return err
}
