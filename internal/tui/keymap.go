package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines global key bindings used across the TUI.
type keyMap struct {
	Quit        key.Binding
	Help        key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
	NextSlider  key.Binding
	StepDown    key.Binding
	StepUp      key.Binding
	JumpDown    key.Binding
	JumpUp      key.Binding
	Reset       key.Binding
	Snapshot    key.Binding
	SnapshotAll key.Binding
	Header      key.Binding
	CloseHeader key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "toggle help"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "cursor up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "cursor down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "cursor left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "cursor right"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		NextSlider: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next slider"),
		),
		StepDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "slider -1%"),
		),
		StepUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "slider +1%"),
		),
		JumpDown: key.NewBinding(
			key.WithKeys("{"),
			key.WithHelp("{", "slider -10%"),
		),
		JumpUp: key.NewBinding(
			key.WithKeys("}"),
			key.WithHelp("}", "slider +10%"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset contrast"),
		),
		Snapshot: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "save zoom png"),
		),
		SnapshotAll: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "save full png"),
		),
		Header: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "header"),
		),
		CloseHeader: key.NewBinding(
			key.WithKeys("esc", "i", "q"),
			key.WithHelp("esc", "close header"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help, k.ZoomIn, k.ZoomOut, k.NextSlider, k.Reset, k.Snapshot, k.Header}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.ZoomIn, k.ZoomOut, k.Reset},
		{k.NextSlider, k.StepDown, k.StepUp, k.JumpDown, k.JumpUp},
		{k.Snapshot, k.SnapshotAll, k.Header, k.Help, k.Quit},
	}
}
