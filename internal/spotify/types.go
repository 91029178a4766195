// package spotify implements the Spotify Web API surface the bridge consumes.
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package spotify

import "fmt"

// PlaybackDevice is the device block inside a playback state response.
type PlaybackDevice struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	VolumePercent int    `json:"volume_percent"`
}

// PlaybackContext identifies what collection the current session is playing from.
type PlaybackContext struct {
	Type string `json:"type"` // playlist, album, artist
	URI  string `json:"uri"`
}

// PlaybackSnapshot is one point-in-time read of the account's playback state.
//
// StatusCode distinguishes 200 (state available) from 204 (nothing playing).
// A missing snapshot (fetch failure) is represented by a nil pointer, which is
// distinct from a 204.
type PlaybackSnapshot struct {
	IsPlaying  bool             `json:"is_playing"`
	Device     PlaybackDevice   `json:"device"`
	Context    *PlaybackContext `json:"context"`
	ShuffleOn  bool             `json:"shuffle_state"`
	ProgressMS int              `json:"progress_ms"`

	StatusCode int `json:"-"`
}

// Device is one entry from the device enumeration endpoint.
type Device struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	IsRestricted  bool   `json:"is_restricted"`
	VolumePercent int    `json:"volume_percent"`
}

// Error is a status-coded failure from the Spotify Web API.
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("spotify API error: status %d: %s", e.Status, e.Message)
}

// DeviceNotFoundError is the one typed failure the executor surfaces: the
// remote reported no active playback device on two consecutive attempts.
// Callers translate it into a communication-failure signal on the control
// that triggered it.
type DeviceNotFoundError struct {
	Operation string
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("no active Spotify playback device for %s", e.Operation)
}
