package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines key bindings for the editor screen
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Focus    key.Binding
	Enter    key.Binding
	ApplyAll key.Binding
	Global   key.Binding
	NewCard  key.Binding
	Undo     key.Binding
	Copy     key.Binding
	Save     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Enter, k.ApplyAll, k.Global, k.Undo, k.Save, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Focus},
		{k.Enter, k.ApplyAll, k.Global, k.NewCard},
		{k.Undo, k.Copy, k.Save, k.Help, k.Quit},
	}
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev option"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next option"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cards/panel"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select/apply"),
		),
		ApplyAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "apply to all"),
		),
		Global: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "all cards"),
		),
		NewCard: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new card"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy"),
		),
		Save: key.NewBinding(
			key.WithKeys("w", "ctrl+s"),
			key.WithHelp("w", "save"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
