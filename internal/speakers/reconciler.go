package speakers

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotbridge/internal/shared"
	"github.com/desertthunder/spotbridge/internal/spotify"
)

// DefaultPollInterval is how often observed state is re-derived from the remote.
const DefaultPollInterval = 20 * time.Second

// ObservedState is a target's externally visible state, recomputed every poll
// tick and never persisted.
type ObservedState struct {
	Active bool
	Volume int
}

// Player is the remote surface the reconciler drives. Reads degrade to nil on
// failure; writes fail only with [*spotify.DeviceNotFoundError].
type Player interface {
	PlaybackState(ctx context.Context) *spotify.PlaybackSnapshot
	Play(ctx context.Context, deviceID, contextURI string) error
	Pause(ctx context.Context, deviceID string) error
	SetVolume(ctx context.Context, percent int, deviceID string) error
	SetShuffle(ctx context.Context, state bool, deviceID string) error
}

// StateSink receives change-only notifications for the host automation layer.
// Unchanged values are not re-announced.
type StateSink interface {
	UpdateActive(targetID string, active bool)
	UpdateVolume(targetID string, volume int)
}

// Recorder journals state transitions for diagnostics. Optional.
type Recorder interface {
	Record(ctx context.Context, targetID, name string, active bool, volume int) error
}

// Reconciler derives each target's observed state from one shared playback
// snapshot per tick.
type Reconciler struct {
	player   Player
	registry *Registry
	sink     StateSink
	recorder Recorder
	logger   *log.Logger
	interval time.Duration

	mu     sync.Mutex
	states map[string]ObservedState
}

// ReconcilerOpts contains configuration options for creating a Reconciler.
type ReconcilerOpts struct {
	Player   Player
	Registry *Registry
	Sink     StateSink
	Recorder Recorder
	Logger   *log.Logger
	Interval time.Duration
}

// NewReconciler creates a Reconciler over the given registry.
func NewReconciler(opts ReconcilerOpts) *Reconciler {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}

	return &Reconciler{
		player:   opts.Player,
		registry: opts.Registry,
		sink:     opts.Sink,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		interval: opts.Interval,
		states:   make(map[string]ObservedState),
	}
}

// Run performs one synchronous tick to establish initial state, then
// reconciles on the poll interval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	r.Tick(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick fetches one playback snapshot and re-derives every target's state.
//
// No snapshot (fetch failed) and a 204 both resolve to inactive with volume
// zero for every target; a 200 activates at most the single claiming target,
// and only when the session is actually playing.
func (r *Reconciler) Tick(ctx context.Context) {
	snap := r.player.PlaybackState(ctx)
	claimant := Claimant(r.registry.Targets(), snap)

	for _, target := range r.registry.Targets() {
		next := ObservedState{}
		if claimant == target && snap.IsPlaying {
			next = ObservedState{Active: true, Volume: snap.Device.VolumePercent}
		}
		r.commit(ctx, target, next)
	}
}

// State returns the last derived state for a target.
func (r *Reconciler) State(targetID string) (ObservedState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[targetID]
	return state, ok
}

// States returns a copy of all derived states keyed by target id.
func (r *Reconciler) States() map[string]ObservedState {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]ObservedState, len(r.states))
	for id, state := range r.states {
		out[id] = state
	}
	return out
}

// SetActive handles an on/off command for one target.
//
// Turning a target on plays its playlist context and then applies its shuffle
// preference, two sequential remote calls; turning it off pauses the device.
// A [*spotify.DeviceNotFoundError] propagates so the accessory layer can flag
// a communication failure on this specific control.
func (r *Reconciler) SetActive(ctx context.Context, idOrName string, active bool) error {
	target := r.registry.Get(idOrName)
	if target == nil {
		return shared.ErrUnknownSpeaker
	}

	if active {
		if err := r.player.Play(ctx, target.DeviceID, target.PlaylistURI); err != nil {
			return err
		}
		if err := r.player.SetShuffle(ctx, target.Shuffle, target.DeviceID); err != nil {
			return err
		}
	} else {
		if err := r.player.Pause(ctx, target.DeviceID); err != nil {
			return err
		}
	}

	prev, _ := r.State(target.ID)
	next := ObservedState{Active: active}
	if active {
		next.Volume = prev.Volume
	}
	r.commit(ctx, target, next)

	return nil
}

// SetVolume handles a volume command for one target.
func (r *Reconciler) SetVolume(ctx context.Context, idOrName string, percent int) error {
	target := r.registry.Get(idOrName)
	if target == nil {
		return shared.ErrUnknownSpeaker
	}

	if err := r.player.SetVolume(ctx, percent, target.DeviceID); err != nil {
		return err
	}

	prev, _ := r.State(target.ID)
	r.commit(ctx, target, ObservedState{Active: prev.Active, Volume: percent})

	return nil
}

// commit stores the derived state and pushes only the deltas downstream.
// The very first derivation for a target always announces, establishing the
// initial characteristic values.
func (r *Reconciler) commit(ctx context.Context, target *Target, next ObservedState) {
	r.mu.Lock()
	prev, seen := r.states[target.ID]
	if seen && prev == next {
		r.mu.Unlock()
		return
	}
	r.states[target.ID] = next
	r.mu.Unlock()

	if r.sink != nil {
		if !seen || prev.Active != next.Active {
			r.sink.UpdateActive(target.ID, next.Active)
		}
		if !seen || prev.Volume != next.Volume {
			r.sink.UpdateVolume(target.ID, next.Volume)
		}
	}

	if r.recorder != nil {
		if err := r.recorder.Record(ctx, target.ID, target.Name, next.Active, next.Volume); err != nil {
			r.logger.Debug("failed to journal state transition", "speaker", target.Name, "error", err)
		}
	}

	r.logger.Debug("speaker state changed", "speaker", target.Name, "active", next.Active, "volume", next.Volume)
}
