package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-liquid/internal/core"
)

// KeyMap defines the key bindings of the simulation view.
type KeyMap struct {
	GravityDown  key.Binding
	GravityUp    key.Binding
	GravityLeft  key.Binding
	GravityRight key.Binding
	RotateLeft   key.Binding
	RotateRight  key.Binding
	Tilt         key.Binding
	Pause        key.Binding
	Step         key.Binding
	Reset        key.Binding
	Save         key.Binding
	Help         key.Binding
	Back         key.Binding
	Quit         key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.RotateLeft, k.RotateRight, k.Pause, k.Reset, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.GravityDown, k.GravityUp, k.GravityLeft, k.GravityRight},
		{k.RotateLeft, k.RotateRight, k.Tilt},
		{k.Pause, k.Step, k.Reset, k.Save},
		{k.Help, k.Back, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		GravityDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "gravity down"),
		),
		GravityUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "gravity up"),
		),
		GravityLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "gravity left"),
		),
		GravityRight: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "gravity right"),
		),
		RotateLeft: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "rotate ↺"),
		),
		RotateRight: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "rotate ↻"),
		),
		Tilt: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tilt sway"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p", "pause"),
		),
		Step: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "step"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "snapshot"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (k KeyMap) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit, true
	case key.Matches(msg, k.GravityDown):
		return core.ActionGravityDown, false
	case key.Matches(msg, k.GravityUp):
		return core.ActionGravityUp, false
	case key.Matches(msg, k.GravityLeft):
		return core.ActionGravityLeft, false
	case key.Matches(msg, k.GravityRight):
		return core.ActionGravityRight, false
	case key.Matches(msg, k.RotateLeft):
		return core.ActionRotateLeft, false
	case key.Matches(msg, k.RotateRight):
		return core.ActionRotateRight, false
	case key.Matches(msg, k.Tilt):
		return core.ActionToggleTilt, false
	case key.Matches(msg, k.Pause):
		return core.ActionPause, false
	case key.Matches(msg, k.Step):
		return core.ActionStep, false
	case key.Matches(msg, k.Reset):
		return core.ActionReset, false
	case key.Matches(msg, k.Save):
		return core.ActionSave, false
	case key.Matches(msg, k.Back):
		return core.ActionBack, false
	}
	return core.ActionNone, false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionHistory
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab", "h":
		return MenuActionHistory
	case "b", "esc":
		return MenuActionBack
	}
	return MenuActionNone
}
