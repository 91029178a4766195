package speakers

import (
	"testing"

	"github.com/desertthunder/spotbridge/internal/shared"
	"github.com/desertthunder/spotbridge/internal/spotify"
)

func playingSnapshot(deviceID, contextURI string) *spotify.PlaybackSnapshot {
	snap := &spotify.PlaybackSnapshot{
		IsPlaying:  true,
		Device:     spotify.PlaybackDevice{ID: deviceID, VolumePercent: 50},
		StatusCode: 200,
	}
	if contextURI != "" {
		snap.Context = &spotify.PlaybackContext{Type: "playlist", URI: contextURI}
	}
	return snap
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{input: "speaker", want: KindSpeaker},
		{input: "smartSpeaker", want: KindSmartSpeaker},
		{input: "playlistSwitch", want: KindPlaylistSwitch},
		{input: "", wantErr: true},
		{input: "toaster", wantErr: true},
	}

	for _, tc := range cases {
		t.Run("input "+tc.input, func(t *testing.T) {
			kind, err := ParseKind(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if kind != tc.want {
				t.Errorf("expected %v, got %v", tc.want, kind)
			}
		})
	}
}

func TestNewRegistry(t *testing.T) {
	logger := shared.NewLogger(nil)

	t.Run("Skips Speakers Missing A Kind", func(t *testing.T) {
		reg, err := NewRegistry([]shared.SpeakerConfig{
			{Name: "Good", DeviceID: "d1", Type: "speaker"},
			{Name: "Untyped", DeviceID: "d2"},
		}, logger)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if reg.Len() != 1 {
			t.Fatalf("expected 1 target, got %d", reg.Len())
		}
		if reg.Targets()[0].Name != "Good" {
			t.Errorf("expected the typed speaker to survive, got %s", reg.Targets()[0].Name)
		}
	})

	t.Run("Rejects Unrecognized Kinds", func(t *testing.T) {
		_, err := NewRegistry([]shared.SpeakerConfig{
			{Name: "Odd", DeviceID: "d1", Type: "subwoofer"},
		}, logger)
		if err == nil {
			t.Error("expected error for unrecognized kind")
		}
	})

	t.Run("Derives Stable IDs", func(t *testing.T) {
		build := func() *Registry {
			reg, err := NewRegistry([]shared.SpeakerConfig{
				{Name: "Kitchen", DeviceID: "d1", Type: "speaker"},
			}, logger)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			return reg
		}

		first := build().Targets()[0].ID
		second := build().Targets()[0].ID
		if first != second {
			t.Errorf("expected stable ids across builds, got %s and %s", first, second)
		}
	})

	t.Run("Normalizes Playlist References", func(t *testing.T) {
		reg, err := NewRegistry([]shared.SpeakerConfig{
			{Name: "Bare", DeviceID: "d1", Type: "speaker", PlaylistID: "abc123"},
			{Name: "Full", DeviceID: "d2", Type: "speaker", PlaylistID: "spotify:playlist:xyz789"},
		}, logger)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if reg.Targets()[0].PlaylistURI != "spotify:playlist:abc123" {
			t.Errorf("expected bare id to gain the URI prefix, got %s", reg.Targets()[0].PlaylistURI)
		}
		if reg.Targets()[1].PlaylistURI != "spotify:playlist:xyz789" {
			t.Errorf("expected full URI to pass through, got %s", reg.Targets()[1].PlaylistURI)
		}
	})
}

func TestClaimant(t *testing.T) {
	logger := shared.NewLogger(nil)

	mustRegistry := func(t *testing.T, configs []shared.SpeakerConfig) *Registry {
		t.Helper()
		reg, err := NewRegistry(configs, logger)
		if err != nil {
			t.Fatalf("failed to build registry: %v", err)
		}
		return reg
	}

	t.Run("Playlist Target Beats Generic Sibling On Same Device", func(t *testing.T) {
		reg := mustRegistry(t, []shared.SpeakerConfig{
			{Name: "Playlist", DeviceID: "shared-device", Type: "speaker", PlaylistID: "abc123"},
			{Name: "Generic", DeviceID: "shared-device", Type: "speaker"},
		})

		snap := playingSnapshot("shared-device", "spotify:playlist:abc123")
		claimant := Claimant(reg.Targets(), snap)

		if claimant == nil || claimant.Name != "Playlist" {
			t.Errorf("expected playlist-bound target to claim, got %+v", claimant)
		}
	})

	t.Run("Generic Target Claims Unassigned Session On Its Device", func(t *testing.T) {
		reg := mustRegistry(t, []shared.SpeakerConfig{
			{Name: "Generic", DeviceID: "d1", Type: "speaker"},
		})

		snap := playingSnapshot("d1", "spotify:album:something")
		claimant := Claimant(reg.Targets(), snap)

		if claimant == nil || claimant.Name != "Generic" {
			t.Errorf("expected generic target to claim, got %+v", claimant)
		}
	})

	t.Run("Generic Target Yields To Playlist Sibling Even When Device Matches", func(t *testing.T) {
		reg := mustRegistry(t, []shared.SpeakerConfig{
			{Name: "Generic", DeviceID: "d1", Type: "speaker"},
			{Name: "Playlist", DeviceID: "d1", Type: "speaker", PlaylistID: "abc123"},
		})

		snap := playingSnapshot("d1", "spotify:playlist:abc123")
		claimant := Claimant(reg.Targets(), snap)

		if claimant == nil || claimant.Name != "Playlist" {
			t.Errorf("expected playlist target to win, got %+v", claimant)
		}
	})

	t.Run("First Configured Playlist Target Wins Ties", func(t *testing.T) {
		reg := mustRegistry(t, []shared.SpeakerConfig{
			{Name: "First", DeviceID: "d1", Type: "speaker", PlaylistID: "abc"},
			{Name: "Second", DeviceID: "d2", Type: "speaker", PlaylistID: "abc123"},
		})

		// Context satisfies both references; configuration order breaks the tie.
		snap := playingSnapshot("d2", "spotify:playlist:abc123")
		claimant := Claimant(reg.Targets(), snap)

		if claimant == nil || claimant.Name != "First" {
			t.Errorf("expected first configured target to win, got %+v", claimant)
		}
	})

	t.Run("No Claimant Without A Snapshot", func(t *testing.T) {
		reg := mustRegistry(t, []shared.SpeakerConfig{
			{Name: "Generic", DeviceID: "d1", Type: "speaker"},
		})

		if c := Claimant(reg.Targets(), nil); c != nil {
			t.Errorf("expected no claimant for nil snapshot, got %+v", c)
		}
	})

	t.Run("No Claimant For A 204", func(t *testing.T) {
		reg := mustRegistry(t, []shared.SpeakerConfig{
			{Name: "Generic", DeviceID: "d1", Type: "speaker"},
		})

		snap := &spotify.PlaybackSnapshot{StatusCode: 204}
		if c := Claimant(reg.Targets(), snap); c != nil {
			t.Errorf("expected no claimant for 204, got %+v", c)
		}
	})

	t.Run("Different Device Does Not Claim", func(t *testing.T) {
		reg := mustRegistry(t, []shared.SpeakerConfig{
			{Name: "Generic", DeviceID: "d1", Type: "speaker"},
		})

		snap := playingSnapshot("other-device", "")
		if c := Claimant(reg.Targets(), snap); c != nil {
			t.Errorf("expected no claimant for foreign device, got %+v", c)
		}
	})
}
