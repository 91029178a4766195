package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/spotbridge/internal/speakers"
	"github.com/desertthunder/spotbridge/internal/spotify"
)

var (
	_ list.Item = speakerItem{}
	_ list.Item = deviceItem{}
)

// speakerItem pairs a [speakers.Target] with its observed state to implement [list.Item].
type speakerItem struct {
	target *speakers.Target
	state  speakers.ObservedState
}

func (i speakerItem) FilterValue() string { return i.target.Name }
func (i speakerItem) Title() string       { return i.target.Name }
func (i speakerItem) Description() string {
	if i.state.Active {
		return styles.on.Render(fmt.Sprintf("playing • volume %d%%", i.state.Volume))
	}
	return styles.off.Render("off")
}

// deviceItem wraps [spotify.Device] to implement [list.Item].
type deviceItem struct {
	device spotify.Device
}

func (i deviceItem) FilterValue() string { return i.device.Name }
func (i deviceItem) Title() string       { return i.device.Name }
func (i deviceItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.device.Type, i.device.ID)
	if i.device.IsActive {
		desc = fmt.Sprintf("%s • active", desc)
	}
	return desc
}
