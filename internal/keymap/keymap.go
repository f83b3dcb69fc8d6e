// Package keymap defines key bindings and action dispatch for the application.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action represents a user-triggerable action.
type Action string

const (
	ActionNone      Action = ""
	ActionPlayPause Action = "play_pause"
	ActionPlay      Action = "play"
	ActionSkip      Action = "skip"
	ActionStop      Action = "stop"
	ActionHelp      Action = "help"
	ActionQuit      Action = "quit"
)

// KeyMap holds the bindings of the player view. It implements help.KeyMap.
type KeyMap struct {
	PlayPause key.Binding
	Play      key.Binding
	Skip      key.Binding
	Stop      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// Default returns the default bindings.
func Default() KeyMap {
	return KeyMap{
		PlayPause: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Play:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
		Skip:      key.NewBinding(key.WithKeys("right", "n"), key.WithHelp("→/n", "next track")),
		Stop:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Resolve returns the action bound to msg, or ActionNone.
func (k KeyMap) Resolve(msg tea.KeyMsg) Action {
	for _, b := range k.actions() {
		if key.Matches(msg, b.binding) {
			return b.action
		}
	}
	return ActionNone
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Skip, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PlayPause, k.Play, k.Skip, k.Stop},
		{k.Help, k.Quit},
	}
}

type boundAction struct {
	binding key.Binding
	action  Action
}

func (k KeyMap) actions() []boundAction {
	return []boundAction{
		{k.PlayPause, ActionPlayPause},
		{k.Play, ActionPlay},
		{k.Skip, ActionSkip},
		{k.Stop, ActionStop},
		{k.Help, ActionHelp},
		{k.Quit, ActionQuit},
	}
}
