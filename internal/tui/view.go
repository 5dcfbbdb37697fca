package tui

import (
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/powerbar/internal/core/history"
	"github.com/colonyops/powerbar/internal/core/styles"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	recentLimit   = 8
)

func searchButton() string {
	return styles.HeaderButtonStyle.Render(styles.IconSearch + " Search")
}

// searchButtonHit reports whether the screen cell (x, y) is on the header
// search button.
func (m Model) searchButtonHit(x, y int) bool {
	w, _ := m.size()
	return y == 0 && x >= w-lipgloss.Width(searchButton()) && x < w
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w == 0 {
		w = defaultWidth
	}
	if h == 0 {
		h = defaultHeight
	}
	return w, h
}

// renderMain draws the host shell: header, current page and help bar.
func (m Model) renderMain(w, h int) string {
	helpView := m.help.View(m.keys)
	bodyHeight := max(h-1-lipgloss.Height(helpView), 0)

	body := ensureExactHeight(m.renderPage(w), bodyHeight)
	return ensureExactWidth(strings.Join([]string{m.renderHeader(w), body, helpView}, "\n"), w)
}

func (m Model) renderHeader(w int) string {
	title := "powerbar"
	if m.demo {
		title += " (demo catalog)"
	}
	left := styles.HeaderStyle.Render(title)
	button := searchButton()
	gap := max(w-lipgloss.Width(left)-lipgloss.Width(button), 1)
	return left + strings.Repeat(" ", gap) + button
}

func (m Model) renderPage(w int) string {
	stack := m.shell.History()
	lines := []string{"", "  " + m.renderNav(stack, w-4), ""}

	cur, ok := stack.Current()
	if !ok {
		hint := "Nothing open yet. Press / to search the catalog."
		if chord := m.overlay.Detector().Chord(); chord.Valid() {
			hint = fmt.Sprintf("Nothing open yet. Press / or %s to search the catalog.", chord)
		}
		lines = append(lines, "  "+styles.PageMetaStyle.Render(hint))
		return strings.Join(lines, "\n")
	}

	title := cur.Title
	if title == "" {
		title = cur.URI.ID
	}
	lines = append(lines,
		"  "+styles.PageTitleStyle.Render(styles.KindIcon(cur.URI.Kind)+" "+ansi.Truncate(title, w-6, "…")),
		"  "+styles.PageMetaStyle.Render(cur.URI.Kind+" · "+cur.URI.String()),
		"  "+styles.PageMetaStyle.Render(cur.URI.WebURL()),
		"  "+styles.PageMetaStyle.Render("visited "+cur.VisitedAt.Format("15:04:05")),
		"",
		"  "+styles.ModalTitleStyle.Render("Recent"),
	)
	lines = append(lines, renderRecent(stack, w-4)...)
	return strings.Join(lines, "\n")
}

func (m Model) renderNav(stack *history.Stack, w int) string {
	back, fwd := styles.PageMetaStyle, styles.PageMetaStyle
	if stack.CanBack() {
		back = styles.CommandStyle
	}
	if stack.CanForward() {
		fwd = styles.CommandStyle
	}
	nav := back.Render("◂ back") + "  " + fwd.Render("forward ▸")
	if stack.Len() == 0 {
		return nav
	}
	pos := styles.PageMetaStyle.Render(fmt.Sprintf("page %d/%d", stack.Pos()+1, stack.Len()))
	gap := max(w-lipgloss.Width(nav)-lipgloss.Width(pos), 1)
	return nav + strings.Repeat(" ", gap) + pos
}

// renderRecent lists the newest history entries, marking the current one.
func renderRecent(stack *history.Stack, w int) []string {
	entries := stack.Entries()
	out := make([]string, 0, recentLimit)
	for i := len(entries) - 1; i >= 0 && len(out) < recentLimit; i-- {
		e := entries[i]
		name := e.Title
		if name == "" {
			name = e.URI.String()
		}
		marker := "  "
		style := styles.PageMetaStyle
		if i == stack.Pos() {
			marker = "▸ "
			style = styles.CommandStyle
		}
		line := marker + styles.KindIcon(e.URI.Kind) + " " + ansi.Truncate(name, w-6, "…")
		out = append(out, "  "+style.Render(line))
	}
	return out
}

// renderGoto draws the "go to" input as a centered modal.
func (m Model) renderGoto(background string, w, h int) string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render("Go to"),
		"",
		m.gotoInput.View(),
		styles.ModalHelpStyle.Render("enter: open • esc: cancel"),
	)
	return centerOverlay(background, styles.ModalStyle.Width(min(64, w-4)).Render(content), w, h)
}

// ensureExactWidth pads or truncates every line of content to width cells.
func ensureExactWidth(content string, width int) string {
	if width <= 0 {
		return content
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		switch lw := ansi.StringWidth(line); {
		case lw < width:
			lines[i] = line + strings.Repeat(" ", width-lw)
		case lw > width:
			truncated := ansi.Truncate(line, width, "")
			lines[i] = truncated + strings.Repeat(" ", width-ansi.StringWidth(truncated))
		}
	}
	return strings.Join(lines, "\n")
}

// ensureExactHeight ensures content has exactly n lines by truncating or padding.
func ensureExactHeight(content string, n int) string {
	if n <= 0 {
		return ""
	}

	lines := strings.Split(content, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
