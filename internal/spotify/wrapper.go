package spotify

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotbridge/internal/shared"
)

// Wrapper combines the raw client with the executor's retry policy and is the
// surface the reconciler and the accessory layer talk to. Read results
// degrade to nil/empty on irrecoverable failure; write commands report only
// [*DeviceNotFoundError], everything else is logged and swallowed.
type Wrapper struct {
	client *Client
	exec   *Executor
	logger *log.Logger
}

// NewWrapper creates a Wrapper around the given client and executor.
func NewWrapper(client *Client, exec *Executor, logger *log.Logger) *Wrapper {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Wrapper{client: client, exec: exec, logger: logger}
}

// PlaybackState returns the latest snapshot, or nil when the fetch failed.
// Callers must treat nil as "state unknown this tick", not as "nothing playing".
func (w *Wrapper) PlaybackState(ctx context.Context) *PlaybackSnapshot {
	snap, ok, err := Do(ctx, w.exec, w.client.PlaybackState)
	if err != nil || !ok {
		return nil
	}
	return snap
}

// Devices lists the account's devices, returning an empty slice on persistent failure.
func (w *Wrapper) Devices(ctx context.Context) []Device {
	return DoList(ctx, w.exec, w.client.Devices)
}

// Play starts playback of contextURI on the device.
func (w *Wrapper) Play(ctx context.Context, deviceID, contextURI string) error {
	return w.command(ctx, func(ctx context.Context) error {
		return w.client.Play(ctx, deviceID, contextURI)
	})
}

// Pause pauses playback on the device.
func (w *Wrapper) Pause(ctx context.Context, deviceID string) error {
	return w.command(ctx, func(ctx context.Context) error {
		return w.client.Pause(ctx, deviceID)
	})
}

// SetVolume sets the device volume.
func (w *Wrapper) SetVolume(ctx context.Context, percent int, deviceID string) error {
	return w.command(ctx, func(ctx context.Context) error {
		return w.client.SetVolume(ctx, percent, deviceID)
	})
}

// SetShuffle toggles shuffle on the device.
func (w *Wrapper) SetShuffle(ctx context.Context, state bool, deviceID string) error {
	return w.command(ctx, func(ctx context.Context) error {
		return w.client.SetShuffle(ctx, state, deviceID)
	})
}

func (w *Wrapper) command(ctx context.Context, op func(context.Context) error) error {
	_, _, err := Do(ctx, w.exec, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
