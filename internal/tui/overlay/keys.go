package overlay

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/powerbar/internal/core/activation"
)

// KeyEvent converts a key press into the detector's event form. The key name
// excludes modifiers so "ctrl+space" yields Key "space" with ModCtrl set.
func KeyEvent(msg tea.KeyPressMsg, target activation.Target) activation.Event {
	k := msg.Key()
	return activation.Event{
		Key:    tea.Key{Code: k.Code}.String(),
		Mods:   Mods(k.Mod),
		Target: target,
	}
}

// Mods maps terminal modifier flags onto activation flags.
func Mods(m tea.KeyMod) activation.Mods {
	var out activation.Mods
	if m.Contains(tea.ModShift) {
		out |= activation.ModShift
	}
	if m.Contains(tea.ModCtrl) {
		out |= activation.ModCtrl
	}
	if m.Contains(tea.ModAlt) {
		out |= activation.ModAlt
	}
	if m.Contains(tea.ModMeta) {
		out |= activation.ModMeta
	}
	if m.Contains(tea.ModSuper) {
		out |= activation.ModSuper
	}
	return out
}

// KeyMap is the overlay's key bindings, used for the help line.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextCat key.Binding
	PrevCat key.Binding
	Select  key.Binding
	Play    key.Binding
	Dismiss key.Binding
}

// DefaultKeyMap returns the overlay bindings for goos.
func DefaultKeyMap(goos string) KeyMap {
	play := "ctrl+enter"
	if goos == "darwin" {
		play = "cmd+enter"
	}
	return KeyMap{
		Up:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		NextCat: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next category")),
		PrevCat: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev category")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Play:    key.NewBinding(key.WithKeys(play), key.WithHelp(play, "play")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear/close")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextCat, k.Select, k.Play, k.Dismiss}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.PrevCat}}
}
