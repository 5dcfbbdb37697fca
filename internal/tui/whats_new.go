package tui

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/colonyops/powerbar/internal/core/logging"
	"github.com/colonyops/powerbar/internal/core/styles"
)

// changeNotes lists what changed in the current release.
const changeNotes = `
* Play an item without opening it.
  - Hold ` + "`ctrl`" + ` (linux/windows) or ` + "`cmd`" + ` (macOS) when selecting a suggestion to start playback instead of navigating.
  - Turn on **add to queue** in settings (` + "`,`" + `) to queue the item instead. Albums queue their tracks in order.
`

const (
	whatsNewMaxWidth  = 72
	whatsNewMaxHeight = 20
	whatsNewChrome    = 7 // border + padding + title + help
)

// WhatsNewDialog shows the change notes once per release.
type WhatsNewDialog struct {
	version  string
	viewport viewport.Model
}

// NewWhatsNewDialog renders notes for version sized to the terminal.
func NewWhatsNewDialog(version, notes string, width, height int) *WhatsNewDialog {
	modalWidth := min(whatsNewMaxWidth, max(width-4, 20))
	contentWidth := modalWidth - 6

	vp := viewport.New(
		viewport.WithWidth(contentWidth),
		viewport.WithHeight(max(min(height-4, whatsNewMaxHeight)-whatsNewChrome, 3)),
	)
	vp.SetContent(renderMarkdown(notes, contentWidth))

	return &WhatsNewDialog{version: version, viewport: vp}
}

// Version returns the release the notes belong to.
func (d *WhatsNewDialog) Version() string { return d.version }

// ScrollUp scrolls the notes up.
func (d *WhatsNewDialog) ScrollUp() { d.viewport.ScrollUp(1) }

// ScrollDown scrolls the notes down.
func (d *WhatsNewDialog) ScrollDown() { d.viewport.ScrollDown(1) }

// Overlay renders the dialog centered over background.
func (d *WhatsNewDialog) Overlay(background string, width, height int) string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render("New in powerbar "+d.version),
		d.viewport.View(),
		styles.ModalHelpStyle.Render("[j/k] scroll  [enter/esc] close"),
	)
	return centerOverlay(background, styles.ModalStyle.Render(content), width, height)
}

func renderMarkdown(md string, width int) string {
	log := logging.Component("tui")

	style := styles.GlamourStyle()
	noMargin := uint(0)
	style.Document.Margin = &noMargin

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		log.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return md
	}
	return strings.TrimSpace(out)
}
