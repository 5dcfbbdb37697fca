package activation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetector_IsActivation(t *testing.T) {
	ctrlSpace := Chord{Modifier: ModifierCtrl, Key: "space"}

	tests := []struct {
		name  string
		chord Chord
		ev    Event
		want  bool
	}{
		{
			name:  "chord with no focus",
			chord: ctrlSpace,
			ev:    Event{Key: "space", Mods: ModCtrl},
			want:  true,
		},
		{
			name:  "chord inside overlay field",
			chord: ctrlSpace,
			ev:    Event{Key: "space", Mods: ModCtrl, Target: Target{Kind: TargetTextInput, ID: SearchFieldID}},
			want:  true,
		},
		{
			name:  "chord inside unrelated input",
			chord: ctrlSpace,
			ev:    Event{Key: "space", Mods: ModCtrl, Target: Target{Kind: TargetTextInput, ID: "goto"}},
			want:  false,
		},
		{
			name:  "extra modifiers still match",
			chord: ctrlSpace,
			ev:    Event{Key: "space", Mods: ModCtrl | ModShift},
			want:  true,
		},
		{
			name:  "missing modifier",
			chord: ctrlSpace,
			ev:    Event{Key: "space"},
			want:  false,
		},
		{
			name:  "wrong modifier",
			chord: ctrlSpace,
			ev:    Event{Key: "space", Mods: ModAlt},
			want:  false,
		},
		{
			name:  "wrong key",
			chord: ctrlSpace,
			ev:    Event{Key: "k", Mods: ModCtrl},
			want:  false,
		},
		{
			name:  "meta matches super",
			chord: Chord{Modifier: ModifierMeta, Key: "k"},
			ev:    Event{Key: "k", Mods: ModSuper},
			want:  true,
		},
		{
			name:  "empty chord disables",
			chord: Chord{},
			ev:    Event{Key: "space", Mods: ModCtrl},
			want:  false,
		},
		{
			name:  "incomplete chord disables",
			chord: Chord{Modifier: ModifierCtrl},
			ev:    Event{Key: "", Mods: ModCtrl},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(tt.chord)
			assert.Equal(t, tt.want, d.IsActivation(tt.ev))
		})
	}
}

func TestDetector_SetChord(t *testing.T) {
	d := NewDetector(Chord{})
	assert.False(t, d.Enabled())

	d.SetChord(DefaultChord("linux"))
	assert.True(t, d.Enabled())
	assert.True(t, d.IsActivation(Event{Key: "space", Mods: ModCtrl}))
}

func TestPlayMods(t *testing.T) {
	assert.True(t, PlayMods("darwin").Has(ModSuper))
	assert.False(t, PlayMods("darwin").Has(ModCtrl))
	assert.Equal(t, ModCtrl, PlayMods("linux"))
}
