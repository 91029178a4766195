package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#1DB954", "#04B575", "#FF0000", "#626262", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	on    lipgloss.Style
	err   lipgloss.Style
	off   lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, on, e, off, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		on:    NewBold(on),
		err:   NewBold(e),
		off:   NewStyle(off),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
