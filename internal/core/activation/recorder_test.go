package activation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_TwoStep(t *testing.T) {
	r := NewRecorder(Chord{})

	assert.Equal(t, StepRecorded, r.Press(Event{Key: "leftctrl", Mods: ModCtrl}))
	assert.Equal(t, StepRecorded, r.Press(Event{Key: "k"}))
	assert.Equal(t, StepIgnored, r.Press(Event{Key: "j"}))
	assert.Equal(t, StepCommit, r.Press(Event{Key: "enter"}))

	c, err := r.Commit()
	require.NoError(t, err)
	assert.Equal(t, "ctrl+k", c.String())
}

func TestRecorder_FirstKeyMustBeModifier(t *testing.T) {
	r := NewRecorder(Chord{})

	assert.Equal(t, StepRejected, r.Press(Event{Key: "k"}))
	assert.True(t, r.Chord().IsZero())
}

func TestRecorder_CombinedPressFillsBothSlots(t *testing.T) {
	r := NewRecorder(Chord{})

	assert.Equal(t, StepRecorded, r.Press(Event{Key: "space", Mods: ModAlt}))
	assert.Equal(t, Chord{Modifier: ModifierAlt, Key: "space"}, r.Chord())
}

func TestRecorder_SecondKeyCannotBeModifier(t *testing.T) {
	r := NewRecorder(Chord{})
	r.Press(Event{Key: "ControlLeft"})

	assert.Equal(t, StepRejected, r.Press(Event{Key: "ShiftLeft"}))
	assert.Equal(t, Chord{Modifier: ModifierCtrl}, r.Chord())
}

func TestRecorder_BackspaceRemovesLastSlot(t *testing.T) {
	r := NewRecorder(DefaultChord("linux"))

	assert.Equal(t, StepRemoved, r.Press(Event{Key: "backspace"}))
	assert.Equal(t, Chord{Modifier: ModifierCtrl}, r.Chord())
	assert.Equal(t, StepRemoved, r.Press(Event{Key: "backspace"}))
	assert.True(t, r.Chord().IsZero())
	assert.Equal(t, StepIgnored, r.Press(Event{Key: "backspace"}))
}

func TestRecorder_CommitEmpty(t *testing.T) {
	r := NewRecorder(DefaultChord("linux"))
	r.Clear()

	assert.Equal(t, StepCommit, r.Press(Event{Key: "tab"}))
	_, err := r.Commit()
	assert.ErrorIs(t, err, ErrEmptyChord)
}

func TestRecorder_CommitIncomplete(t *testing.T) {
	r := NewRecorder(Chord{})
	r.Press(Event{Key: "alt"})

	c, err := r.Commit()
	assert.ErrorIs(t, err, ErrIncompleteChord)
	assert.ErrorIs(t, err, ErrEmptyChord)
	assert.Equal(t, ModifierAlt, c.Modifier)
}
