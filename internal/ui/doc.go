// Package ui implements an interactive terminal dashboard using bubbletea's Elm architecture.
//
// The TUI shows every configured speaker with its observed on/off and volume
// state, refreshed on the bridge's poll cadence, and offers two views:
//  1. [SpeakerListView] : Browse speakers, toggle them, and nudge volume
//  2. [DeviceListView] : Inspect the devices Spotify currently reports
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// State refreshes arrive as messages produced by tea.Tick commands, so the
// dashboard never blocks on the Spotify API.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, +/-, d, esc, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
