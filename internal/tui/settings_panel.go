package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/powerbar/internal/core/activation"
	"github.com/colonyops/powerbar/internal/core/config"
	"github.com/colonyops/powerbar/internal/core/styles"
	"github.com/colonyops/powerbar/internal/tui/overlay"
)

// chordFieldID identifies the chord recorder, a text input as far as the
// activation detector is concerned.
const chordFieldID = "settings-chord"

// MsgInvalidChord is shown when the recorder is left without a usable chord.
const MsgInvalidChord = "Please set a valid key combo for the power bar"

type settingsField int

const (
	fieldResults settingsField = iota
	fieldChord
	fieldQueue
	fieldCount
)

// SettingsPanel edits the overlay settings in place: a results stepper, a
// chord recorder and the add-to-queue toggle.
type SettingsPanel struct {
	results    int
	chord      activation.Chord
	addToQueue bool

	focused   settingsField
	recorder  *activation.Recorder
	warning   string
	submitted bool
	cancelled bool
}

// NewSettingsPanel starts editing s.
func NewSettingsPanel(s overlay.Settings) *SettingsPanel {
	return &SettingsPanel{
		results:    min(max(s.Limit, config.MinResultsPerCategory), config.MaxResultsPerCategory),
		chord:      s.Chord,
		addToQueue: s.AddToQueue,
	}
}

// Settings returns the edited values.
func (p *SettingsPanel) Settings() overlay.Settings {
	return overlay.Settings{Limit: p.results, Chord: p.chord, AddToQueue: p.addToQueue}
}

// Recording reports whether the chord recorder has focus.
func (p *SettingsPanel) Recording() bool { return p.recorder != nil }

// Submitted reports whether the user saved.
func (p *SettingsPanel) Submitted() bool { return p.submitted }

// Cancelled reports whether the user discarded the changes.
func (p *SettingsPanel) Cancelled() bool { return p.cancelled }

// TakeWarning returns and clears the pending warning.
func (p *SettingsPanel) TakeWarning() string {
	w := p.warning
	p.warning = ""
	return w
}

// Update handles a key press.
func (p *SettingsPanel) Update(msg tea.KeyPressMsg) {
	if p.recorder != nil {
		p.record(msg)
		return
	}

	switch msg.String() {
	case "up", "k", "shift+tab":
		p.focused = (p.focused + fieldCount - 1) % fieldCount
	case "down", "j", "tab":
		p.focused = (p.focused + 1) % fieldCount
	case "left", "h", "-":
		if p.focused == fieldResults {
			p.results = max(p.results-1, config.MinResultsPerCategory)
		}
	case "right", "l", "+", "=":
		if p.focused == fieldResults {
			p.results = min(p.results+1, config.MaxResultsPerCategory)
		}
	case "space":
		p.activate()
	case "enter":
		if p.focused == fieldChord {
			p.activate()
			return
		}
		p.submitted = true
	case "esc":
		p.cancelled = true
	}
}

func (p *SettingsPanel) activate() {
	switch p.focused {
	case fieldChord:
		p.recorder = activation.NewRecorder(activation.Chord{})
	case fieldQueue:
		p.addToQueue = !p.addToQueue
	}
}

// record feeds msg to the chord recorder. Escape abandons the recording and
// keeps the previous chord.
func (p *SettingsPanel) record(msg tea.KeyPressMsg) {
	if msg.String() == "esc" {
		p.recorder = nil
		return
	}

	ev := overlay.KeyEvent(msg, activation.Target{Kind: activation.TargetTextInput, ID: chordFieldID})
	if p.recorder.Press(ev) != activation.StepCommit {
		return
	}

	chord, err := p.recorder.Commit()
	p.recorder = nil
	if err != nil {
		p.chord = activation.Chord{}
		p.warning = MsgInvalidChord
		return
	}
	p.chord = chord
}

// View renders the panel body.
func (p *SettingsPanel) View() string {
	rows := []string{
		p.row(fieldResults, "Results per category", fmt.Sprintf("◂ %2d ▸", p.results)),
		p.row(fieldChord, "Activation key combo", p.chordLabel()),
		p.row(fieldQueue, "Add to queue", toggleLabel(p.addToQueue)),
	}

	help := "[↑↓] field  [←→] adjust  [space] toggle/record  [enter] save  [esc] cancel"
	if p.recorder != nil {
		help = "press modifier+key  [backspace] undo  [enter] done  [esc] cancel"
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render("Settings"),
		"",
		strings.Join(rows, "\n\n"),
		styles.ModalHelpStyle.Render(help),
	)
}

func (p *SettingsPanel) row(f settingsField, label, value string) string {
	style := styles.FormFieldStyle
	if f == p.focused {
		style = styles.FormFieldFocusedStyle
	}
	return style.Render(label + "\n" + value)
}

func (p *SettingsPanel) chordLabel() string {
	if p.recorder != nil {
		rec := p.recorder.Chord().String()
		if rec == "" {
			rec = "…"
		}
		return styles.WarningTextStyle.Render("recording: " + rec)
	}
	if !p.chord.Valid() {
		return styles.FormErrorStyle.Render("(disabled)")
	}
	return p.chord.String()
}

func toggleLabel(on bool) string {
	if on {
		return "[x] on"
	}
	return "[ ] off"
}

// Overlay renders the panel centered over background.
func (p *SettingsPanel) Overlay(background string, width, height int) string {
	return centerOverlay(background, styles.ModalStyle.Render(p.View()), width, height)
}
