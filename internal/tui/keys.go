package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the terminal front end.
type KeyMap struct {
	// General
	Help  key.Binding
	Quit  key.Binding
	Focus key.Binding

	// Tree navigation
	Up     key.Binding
	Down   key.Binding
	Parent key.Binding
	Open   key.Binding

	// Actions
	Activate  key.Binding
	Reload    key.Binding
	Directory key.Binding
	GotoLine  key.Binding
	Highlight key.Binding
	Validate  key.Binding
	Backup    key.Binding

	// Prompt
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "move down"),
		),
		Parent: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h", "parent"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter", "open"),
		),
		Activate: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "external viewer"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload tree"),
		),
		Directory: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "select directory"),
		),
		GotoLine: key.NewBinding(
			key.WithKeys(":", "g"),
			key.WithHelp(":", "goto line"),
		),
		Highlight: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "syntax highlight"),
		),
		Validate: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "validate xml"),
		),
		Backup: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "write backup"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.GotoLine, k.Validate, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Parent, k.Open, k.Focus},
		{k.Directory, k.Reload, k.Activate},
		{k.GotoLine, k.Highlight, k.Validate, k.Backup},
		{k.Help, k.Quit},
	}
}
