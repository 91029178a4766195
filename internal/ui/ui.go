package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotbridge/internal/speakers"
	"github.com/desertthunder/spotbridge/internal/spotify"
)

// ViewState represents the current view in the dashboard.
type ViewState int

const (
	SpeakerListView ViewState = iota
	DeviceListView
)

const volumeStep = 5

// Controller is the slice of the reconciler the dashboard drives.
type Controller interface {
	Tick(ctx context.Context)
	States() map[string]speakers.ObservedState
	SetActive(ctx context.Context, idOrName string, active bool) error
	SetVolume(ctx context.Context, idOrName string, percent int) error
}

// DeviceLister enumerates the devices Spotify currently reports.
type DeviceLister interface {
	Devices(ctx context.Context) []spotify.Device
}

type statesRefreshedMsg map[string]speakers.ObservedState

type devicesFetchedMsg []spotify.Device

type commandDoneMsg struct {
	err error
}

type refreshTickMsg time.Time

// Model represents the dashboard state.
type Model struct {
	ctx        context.Context
	view       ViewState
	controller Controller
	registry   *speakers.Registry
	devices    DeviceLister
	interval   time.Duration

	width       int
	height      int
	speakerList list.Model
	deviceList  list.Model
	err         error
	help        help.Model
	keys        keyMap
}

// NewModel creates a dashboard over the given reconciler and registry.
func NewModel(ctx context.Context, controller Controller, registry *speakers.Registry, devices DeviceLister, interval time.Duration) *Model {
	if interval <= 0 {
		interval = speakers.DefaultPollInterval
	}

	m := &Model{
		ctx:        ctx,
		view:       SpeakerListView,
		controller: controller,
		registry:   registry,
		devices:    devices,
		interval:   interval,
		help:       help.New(),
		keys:       newKeyMap(),
	}

	m.speakerList = list.New(m.speakerItems(nil), list.NewDefaultDelegate(), 0, 0)
	m.speakerList.Title = "Speakers"
	m.speakerList.SetShowHelp(false)

	return m
}

// Init refreshes the speaker states and starts the poll timer.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refreshStates(), m.scheduleRefresh())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.speakerList.SetSize(msg.Width-4, msg.Height-8)
		if m.deviceList.Width() != 0 {
			m.deviceList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SpeakerListView:
			return m.handleSpeakerKeys(msg)
		case DeviceListView:
			return m.handleDeviceKeys(msg)
		}

	case statesRefreshedMsg:
		m.speakerList.SetItems(m.speakerItems(msg))
		return m, nil

	case devicesFetchedMsg:
		items := make([]list.Item, len(msg))
		for i, device := range msg {
			items[i] = deviceItem{device: device}
		}
		m.deviceList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
		m.deviceList.Title = "Spotify Devices"
		m.deviceList.SetShowHelp(false)
		m.view = DeviceListView
		return m, nil

	case commandDoneMsg:
		m.err = msg.err
		return m, m.refreshStates()

	case refreshTickMsg:
		return m, tea.Batch(m.refreshStates(), m.scheduleRefresh())
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SpeakerListView:
		return m.renderSpeakerList()
	case DeviceListView:
		return m.renderDeviceList()
	default:
		return ""
	}
}

func (m *Model) handleSpeakerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		if target := m.selectedTarget(); target != nil {
			state := m.controller.States()[target.ID]
			return m, m.setActive(target.ID, !state.Active)
		}
	case key.Matches(msg, m.keys.louder):
		if target := m.selectedTarget(); target != nil {
			state := m.controller.States()[target.ID]
			return m, m.setVolume(target.ID, min(state.Volume+volumeStep, 100))
		}
	case key.Matches(msg, m.keys.quieter):
		if target := m.selectedTarget(); target != nil {
			state := m.controller.States()[target.ID]
			return m, m.setVolume(target.ID, max(state.Volume-volumeStep, 0))
		}
	case key.Matches(msg, m.keys.devices):
		return m, m.fetchDevices()
	}

	var cmd tea.Cmd
	m.speakerList, cmd = m.speakerList.Update(msg)
	return m, cmd
}

func (m *Model) handleDeviceKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = SpeakerListView
		return m, nil
	}

	var cmd tea.Cmd
	m.deviceList, cmd = m.deviceList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SpeakerListView:
		m.speakerList, cmd = m.speakerList.Update(msg)
	case DeviceListView:
		m.deviceList, cmd = m.deviceList.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectedTarget() *speakers.Target {
	selected := m.speakerList.SelectedItem()
	if selected == nil {
		return nil
	}
	if item, ok := selected.(speakerItem); ok {
		return item.target
	}
	return nil
}

func (m *Model) speakerItems(states map[string]speakers.ObservedState) []list.Item {
	targets := m.registry.Targets()
	items := make([]list.Item, len(targets))
	for i, target := range targets {
		items[i] = speakerItem{target: target, state: states[target.ID]}
	}
	return items
}

func (m *Model) refreshStates() tea.Cmd {
	return func() tea.Msg {
		m.controller.Tick(m.ctx)
		return statesRefreshedMsg(m.controller.States())
	}
}

func (m *Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func (m *Model) setActive(targetID string, active bool) tea.Cmd {
	return func() tea.Msg {
		return commandDoneMsg{err: m.controller.SetActive(m.ctx, targetID, active)}
	}
}

func (m *Model) setVolume(targetID string, percent int) tea.Cmd {
	return func() tea.Msg {
		return commandDoneMsg{err: m.controller.SetVolume(m.ctx, targetID, percent)}
	}
}

func (m *Model) fetchDevices() tea.Cmd {
	return func() tea.Msg {
		return devicesFetchedMsg(m.devices.Devices(m.ctx))
	}
}

func (m *Model) renderSpeakerList() string {
	helpKeys := []key.Binding{m.keys.toggle, m.keys.louder, m.keys.quieter, m.keys.devices, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	body := fmt.Sprintf("%s\n\n%s", m.speakerList.View(), helpView)
	if m.err != nil {
		body = fmt.Sprintf("%s\n%s", styles.err.Render(fmt.Sprintf("Error: %v", m.err)), body)
	}
	return body
}

func (m *Model) renderDeviceList() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.deviceList.View(), helpView)
}
