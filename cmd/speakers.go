package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotbridge/internal/shared"
	"github.com/urfave/cli/v3"
)

// speakerRow is the list output for one speaker.
type speakerRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	DeviceID string `json:"device_id"`
	Playlist string `json:"playlist,omitempty"`
	Active   bool   `json:"active"`
	Volume   int    `json:"volume"`
}

// SpeakersList shows every configured speaker with its observed state.
func (r *Runner) SpeakersList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.registry.Len() == 0 {
		return r.writePlain("No speakers configured. Add [[speakers]] blocks to config.toml.\n")
	}

	if err := r.ensureSession(ctx); err != nil {
		return err
	}

	r.reconciler.Tick(ctx)
	states := r.reconciler.States()

	rows := make([]speakerRow, 0, r.registry.Len())
	for _, target := range r.registry.Targets() {
		state := states[target.ID]
		rows = append(rows, speakerRow{
			ID:       target.ID,
			Name:     target.Name,
			Kind:     target.Kind.String(),
			DeviceID: target.DeviceID,
			Playlist: target.PlaylistURI,
			Active:   state.Active,
			Volume:   state.Volume,
		})
	}

	if useJSON {
		return r.writeJSON(rows, pretty)
	}

	for _, row := range rows {
		status := "off"
		if row.Active {
			status = fmt.Sprintf("playing at %d%%", row.Volume)
		}
		r.writePlain("%-20s %-14s %s\n", row.Name, row.Kind, status)
	}
	return nil
}

// SpeakerOn turns a speaker on.
func (r *Runner) SpeakerOn(ctx context.Context, cmd *cli.Command) error {
	return r.setSpeakerActive(ctx, cmd, true)
}

// SpeakerOff turns a speaker off.
func (r *Runner) SpeakerOff(ctx context.Context, cmd *cli.Command) error {
	return r.setSpeakerActive(ctx, cmd, false)
}

func (r *Runner) setSpeakerActive(ctx context.Context, cmd *cli.Command, active bool) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: speaker name", shared.ErrMissingArgument)
	}

	if err := r.ensureSession(ctx); err != nil {
		return err
	}

	if err := r.reconciler.SetActive(ctx, name, active); err != nil {
		return err
	}

	if active {
		return r.writePlain("✓ %s is on\n", name)
	}
	return r.writePlain("✓ %s is off\n", name)
}

// SpeakerVolume sets a speaker's volume.
func (r *Runner) SpeakerVolume(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: speaker name", shared.ErrMissingArgument)
	}

	percent := int(cmd.IntArg("percent"))
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: volume must be between 0 and 100", shared.ErrInvalidArgument)
	}

	if err := r.ensureSession(ctx); err != nil {
		return err
	}

	if err := r.reconciler.SetVolume(ctx, name, percent); err != nil {
		return err
	}

	return r.writePlain("✓ %s volume set to %d%%\n", name, percent)
}

// Devices lists the playback devices Spotify currently reports.
func (r *Runner) Devices(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if err := r.ensureSession(ctx); err != nil {
		return err
	}

	devices := r.player.Devices(ctx)
	if len(devices) == 0 {
		return r.writePlain("No devices reported. Open Spotify on a device and try again.\n")
	}

	if useJSON {
		return r.writeJSON(devices, pretty)
	}

	for _, device := range devices {
		marker := " "
		if device.IsActive {
			marker = "*"
		}
		r.writePlain("%s %-24s %-12s %s\n", marker, device.Name, device.Type, device.ID)
	}
	return nil
}
