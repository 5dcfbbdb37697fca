package tui

import (
	"charm.land/bubbles/v2/key"
)

// KeyMap is the host shell's key bindings while the overlay is closed.
type KeyMap struct {
	Search        key.Binding
	GoTo          key.Binding
	Back          key.Binding
	Forward       key.Binding
	Settings      key.Binding
	Notifications key.Binding
	Dismiss       key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the host bindings. chord is the activation chord
// shown next to the search binding, empty when activation is disabled.
func DefaultKeyMap(chord string) KeyMap {
	searchHelp := "/"
	if chord != "" {
		searchHelp = "/ or " + chord
	}
	return KeyMap{
		Search:        key.NewBinding(key.WithKeys("/"), key.WithHelp(searchHelp, "search")),
		GoTo:          key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to uri")),
		Back:          key.NewBinding(key.WithKeys("b", "left"), key.WithHelp("b", "back")),
		Forward:       key.NewBinding(key.WithKeys("f", "right"), key.WithHelp("f", "forward")),
		Settings:      key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
		Notifications: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notifications")),
		Dismiss:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss toast")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Back, k.Forward, k.Settings, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.GoTo, k.Back, k.Forward},
		{k.Settings, k.Notifications, k.Dismiss, k.Quit},
	}
}
