// package speakers maps configured playback targets to observed on/off state.
//
// A target is one controllable speaker. Targets bound to a playlist claim the
// account's playback session whenever its context matches their playlist;
// targets bound only to a device claim whatever unassigned session runs on
// that device. The reconciler re-derives every target's observed state from a
// shared playback snapshot on each poll tick.
package speakers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotbridge/internal/shared"
	"github.com/desertthunder/spotbridge/internal/spotify"
)

// Kind is the finite set of supported speaker behaviors. The configuration
// string is resolved exactly once at registry build time; an unrecognized
// value is an explicit error rather than a silent lookup miss.
type Kind int

const (
	KindSpeaker Kind = iota
	KindSmartSpeaker
	KindPlaylistSwitch
)

func (k Kind) String() string {
	switch k {
	case KindSpeaker:
		return "speaker"
	case KindSmartSpeaker:
		return "smartSpeaker"
	case KindPlaylistSwitch:
		return "playlistSwitch"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind resolves a configuration string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "speaker":
		return KindSpeaker, nil
	case "smartSpeaker":
		return KindSmartSpeaker, nil
	case "playlistSwitch":
		return KindPlaylistSwitch, nil
	case "":
		return 0, shared.ErrMissingSpeakerKind
	default:
		return 0, fmt.Errorf("%w: %q", shared.ErrUnrecognizedKind, s)
	}
}

// Target is one configured playback target.
type Target struct {
	ID       string // stable accessory id derived from device id + name
	Name     string
	DeviceID string
	Kind     Kind
	Shuffle  bool

	// PlaylistURI is the full context URI used when starting playback.
	// Empty for generic targets, which claim any unassigned session on
	// their device instead.
	PlaylistURI string

	// playlistKey is the bare playlist id used for context matching.
	playlistKey string
}

// HasPlaylist reports whether this target is playlist-bound.
func (t *Target) HasPlaylist() bool {
	return t.playlistKey != ""
}

// MatchesContext reports whether the snapshot's playing context belongs to
// this target's playlist.
func (t *Target) MatchesContext(snap *spotify.PlaybackSnapshot) bool {
	if !t.HasPlaylist() || snap == nil || snap.Context == nil {
		return false
	}
	return strings.Contains(snap.Context.URI, t.playlistKey)
}

// normalizePlaylist accepts either a bare playlist id or a full spotify URI
// and returns the play URI plus the bare id used for matching.
func normalizePlaylist(id string) (uri, key string) {
	if id == "" {
		return "", ""
	}
	if strings.Contains(id, ":") {
		parts := strings.Split(id, ":")
		return id, parts[len(parts)-1]
	}
	return "spotify:playlist:" + id, id
}

// Registry holds targets in configuration order. Order matters: when two
// playlist-bound targets both match a snapshot's context, the first
// configured one wins the claim.
type Registry struct {
	targets []*Target
}

// NewRegistry builds targets from speaker configuration blocks.
//
// A speaker missing its kind tag is skipped with a warning rather than
// failing the whole bridge; an unrecognized kind is a configuration error.
func NewRegistry(configs []shared.SpeakerConfig, logger *log.Logger) (*Registry, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	reg := &Registry{}
	for _, cfg := range configs {
		kind, err := ParseKind(cfg.Type)
		if err != nil {
			if err == shared.ErrMissingSpeakerKind {
				logger.Warn("speaker is missing its type, skipping", "name", cfg.Name)
				continue
			}
			return nil, fmt.Errorf("speaker %q: %w", cfg.Name, err)
		}

		uri, key := normalizePlaylist(cfg.PlaylistID)
		reg.targets = append(reg.targets, &Target{
			ID:          shared.AccessoryID(cfg.DeviceID, cfg.Name),
			Name:        cfg.Name,
			DeviceID:    cfg.DeviceID,
			Kind:        kind,
			Shuffle:     cfg.Shuffle,
			PlaylistURI: uri,
			playlistKey: key,
		})
	}

	return reg, nil
}

// Targets returns the targets in configuration order.
func (r *Registry) Targets() []*Target {
	return r.targets
}

// Len returns the number of registered targets.
func (r *Registry) Len() int {
	return len(r.targets)
}

// Get finds a target by accessory id or display name.
func (r *Registry) Get(idOrName string) *Target {
	for _, t := range r.targets {
		if t.ID == idOrName || t.Name == idOrName {
			return t
		}
	}
	return nil
}

// Claimant decides which single target, if any, the snapshot's session
// belongs to.
//
// Playlist-bound targets are checked first and take precedence over generic
// device-bound ones, so a generic speaker never claims a session that
// legitimately belongs to a playlist-bound sibling on the same device. Ties
// between matching playlist-bound targets break toward the first configured.
func Claimant(targets []*Target, snap *spotify.PlaybackSnapshot) *Target {
	if snap == nil || snap.StatusCode != 200 {
		return nil
	}

	for _, t := range targets {
		if t.MatchesContext(snap) {
			return t
		}
	}

	for _, t := range targets {
		if !t.HasPlaylist() && t.DeviceID != "" && t.DeviceID == snap.Device.ID {
			return t
		}
	}

	return nil
}
