package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/spritemover/internal/core"
)

// KeyMap binds terminal keys to keypad buttons and program actions.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	A      key.Binding
	B      key.Binding
	L      key.Binding
	R      key.Binding
	Start  key.Binding
	Select key.Binding
	Shot   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Help, k.Quit}
}

// FullHelp returns bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.A, k.B, k.L, k.R},
		{k.Start, k.Select, k.Shot, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("↑/w", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/s", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "right"),
		),
		A: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "A"),
		),
		B: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "B"),
		),
		L: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "L"),
		),
		R: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "R"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start"),
		),
		Select: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("bksp", "select"),
		),
		Shot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Button maps a key message to the keypad button it presses.
func (k KeyMap) Button(msg tea.KeyMsg) (core.Button, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return core.ButtonUp, true
	case key.Matches(msg, k.Down):
		return core.ButtonDown, true
	case key.Matches(msg, k.Left):
		return core.ButtonLeft, true
	case key.Matches(msg, k.Right):
		return core.ButtonRight, true
	case key.Matches(msg, k.A):
		return core.ButtonA, true
	case key.Matches(msg, k.B):
		return core.ButtonB, true
	case key.Matches(msg, k.L):
		return core.ButtonL, true
	case key.Matches(msg, k.R):
		return core.ButtonR, true
	case key.Matches(msg, k.Start):
		return core.ButtonStart, true
	case key.Matches(msg, k.Select):
		return core.ButtonSelect, true
	}
	return 0, false
}
