package activation

// Step is the effect of a key press on a Recorder.
type Step int

const (
	// StepIgnored means the press did not change the recording.
	StepIgnored Step = iota
	// StepRejected means the press was refused, e.g. a non-modifier first key.
	StepRejected
	// StepRecorded means a slot was filled.
	StepRecorded
	// StepRemoved means the last slot was cleared.
	StepRemoved
	// StepCommit means the user finished recording.
	StepCommit
)

// Recorder captures a new chord in two steps: a modifier, then a trigger
// key.
type Recorder struct {
	mod Modifier
	key string
}

// NewRecorder starts a recorder pre-filled with c.
func NewRecorder(c Chord) *Recorder {
	return &Recorder{mod: c.Modifier, key: c.Key}
}

// Chord returns what has been recorded so far.
func (r *Recorder) Chord() Chord {
	return Chord{Modifier: r.mod, Key: r.key}
}

// Clear empties both slots.
func (r *Recorder) Clear() {
	r.mod = ""
	r.key = ""
}

// Press applies a key event to the recording.
func (r *Recorder) Press(ev Event) Step {
	key := NormalizeKey(ev.Key)

	switch key {
	case "backspace":
		switch {
		case r.key != "":
			r.key = ""
		case r.mod != "":
			r.mod = ""
		default:
			return StepIgnored
		}
		return StepRemoved
	case "enter", "tab":
		return StepCommit
	}

	switch {
	case r.mod == "":
		if mod, err := ParseModifier(key); err == nil {
			r.mod = mod
			return StepRecorded
		}
		// Terminals usually report the whole combination in one event
		// instead of a bare modifier press.
		if mod, ok := modifierFromFlags(ev.Mods); ok && key != "" {
			r.mod = mod
			r.key = key
			return StepRecorded
		}
		return StepRejected
	case r.key == "":
		if _, err := ParseModifier(key); err == nil || key == "" {
			return StepRejected
		}
		r.key = key
		return StepRecorded
	default:
		return StepIgnored
	}
}

// Commit validates the recording.
func (r *Recorder) Commit() (Chord, error) {
	c := r.Chord()
	switch {
	case c.IsZero():
		return Chord{}, ErrEmptyChord
	case c.Key == "":
		return c, ErrIncompleteChord
	}
	return c, nil
}

// modifierFromFlags picks the chord modifier for a combined press, preferring
// ctrl, then alt, then meta, then shift.
func modifierFromFlags(m Mods) (Modifier, bool) {
	switch {
	case m.Has(ModCtrl):
		return ModifierCtrl, true
	case m.Has(ModAlt):
		return ModifierAlt, true
	case m.Has(ModMeta | ModSuper):
		return ModifierMeta, true
	case m.Has(ModShift):
		return ModifierShift, true
	}
	return "", false
}
