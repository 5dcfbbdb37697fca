package activation

// Mods is a set of modifier flags carried by a key event.
type Mods uint8

const (
	ModShift Mods = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
	ModSuper
)

// Has reports whether any flag in o is set.
func (m Mods) Has(o Mods) bool { return m&o != 0 }

// TargetKind classifies the element that had focus when a key was pressed.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetTextInput
)

// SearchFieldID identifies the overlay's own search field.
const SearchFieldID = "powerbar-search"

// Target is the focused element at the time of a key press.
type Target struct {
	Kind TargetKind
	ID   string
}

// Event is a key press as seen by the detector. Key holds the base key name
// without modifiers ("space", "k").
type Event struct {
	Key    string
	Mods   Mods
	Target Target
}

// PlayMods returns the modifier flags that turn a selection into playback:
// Cmd on macOS, Ctrl elsewhere.
func PlayMods(goos string) Mods {
	if goos == "darwin" {
		return ModMeta | ModSuper
	}
	return ModCtrl
}

// Detector matches key events against the configured chord.
type Detector struct {
	chord Chord
}

// NewDetector returns a detector for c.
func NewDetector(c Chord) *Detector {
	return &Detector{chord: c}
}

// Chord returns the configured chord.
func (d *Detector) Chord() Chord { return d.chord }

// SetChord replaces the configured chord.
func (d *Detector) SetChord(c Chord) { d.chord = c }

// Enabled reports whether the configured chord can ever match.
func (d *Detector) Enabled() bool { return d.chord.Valid() }

// IsActivation reports whether ev toggles the overlay. Chords typed into text
// inputs other than the overlay's own field never match.
func (d *Detector) IsActivation(ev Event) bool {
	if !d.Enabled() {
		return false
	}
	if ev.Target.Kind == TargetTextInput && ev.Target.ID != SearchFieldID {
		return false
	}
	return NormalizeKey(ev.Key) == NormalizeKey(d.chord.Key) && ev.Mods.Has(d.chord.Modifier.Flags())
}
