// Package activation recognizes and records the modifier+key chord that
// toggles the quick search overlay.
package activation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyChord is returned when no chord has been configured.
	ErrEmptyChord = errors.New("empty key combo")
	// ErrIncompleteChord is returned when a modifier was recorded without a
	// trigger key.
	ErrIncompleteChord = fmt.Errorf("%w: missing trigger key", ErrEmptyChord)
	// ErrInvalidModifier is returned for a first key outside the modifier set.
	ErrInvalidModifier = errors.New("first key must be a modifier (shift, ctrl, alt or meta)")
)

// Modifier is one of the keys allowed as the first half of a chord.
type Modifier string

const (
	ModifierShift Modifier = "shift"
	ModifierCtrl  Modifier = "ctrl"
	ModifierAlt   Modifier = "alt"
	ModifierMeta  Modifier = "meta"
)

// Modifiers returns the fixed modifier set.
func Modifiers() []Modifier {
	return []Modifier{ModifierShift, ModifierCtrl, ModifierAlt, ModifierMeta}
}

// Flags returns the event flags that satisfy m. Meta is also satisfied by
// Super since terminals report the Cmd/Windows key under either name.
func (m Modifier) Flags() Mods {
	switch m {
	case ModifierShift:
		return ModShift
	case ModifierCtrl:
		return ModCtrl
	case ModifierAlt:
		return ModAlt
	case ModifierMeta:
		return ModMeta | ModSuper
	default:
		return 0
	}
}

// ParseModifier normalizes a modifier name or modifier key code. Left and
// right variants collapse ("leftctrl", "ControlRight") and "control" becomes
// "ctrl".
func ParseModifier(s string) (Modifier, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, "key")
	for _, side := range []string{"left", "right"} {
		name = strings.TrimPrefix(name, side)
		name = strings.TrimSuffix(name, side)
	}

	switch name {
	case "shift":
		return ModifierShift, nil
	case "ctrl", "control":
		return ModifierCtrl, nil
	case "alt", "option", "opt":
		return ModifierAlt, nil
	case "meta", "super", "cmd", "command", "win", "windows", "os":
		return ModifierMeta, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrInvalidModifier)
	}
}

// Chord is a modifier plus a trigger key. The zero value disables activation.
type Chord struct {
	Modifier Modifier
	Key      string
}

// DefaultChord returns the platform default: alt+space on macOS, ctrl+space
// everywhere else.
func DefaultChord(goos string) Chord {
	if goos == "darwin" {
		return Chord{Modifier: ModifierAlt, Key: "space"}
	}
	return Chord{Modifier: ModifierCtrl, Key: "space"}
}

// IsZero reports whether c has neither modifier nor key.
func (c Chord) IsZero() bool { return c.Modifier == "" && c.Key == "" }

// Valid reports whether c is complete enough to ever match.
func (c Chord) Valid() bool { return c.Modifier.Flags() != 0 && c.Key != "" }

// String renders the chord as "ctrl+space".
func (c Chord) String() string {
	switch {
	case c.IsZero():
		return ""
	case c.Key == "":
		return string(c.Modifier)
	default:
		return string(c.Modifier) + "+" + c.Key
	}
}

// ParseChord parses "modifier+key". The key is normalized with NormalizeKey.
func ParseChord(s string) (Chord, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Chord{}, ErrEmptyChord
	}

	modPart, keyPart, found := strings.Cut(s, "+")
	mod, err := ParseModifier(modPart)
	if err != nil {
		return Chord{}, err
	}
	if !found || strings.TrimSpace(keyPart) == "" {
		return Chord{Modifier: mod}, ErrIncompleteChord
	}

	return Chord{Modifier: mod, Key: NormalizeKey(keyPart)}, nil
}

// NormalizeKey lowercases a key name and maps DOM-style codes ("Space",
// "KeyK", "Digit1") onto terminal key names.
func NormalizeKey(k string) string {
	if k == " " {
		return "space"
	}
	k = strings.ToLower(strings.TrimSpace(k))
	switch {
	case len(k) == 4 && strings.HasPrefix(k, "key"):
		return k[3:]
	case len(k) == 6 && strings.HasPrefix(k, "digit"):
		return k[5:]
	}
	return k
}
