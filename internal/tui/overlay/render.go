package overlay

import (
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/powerbar/internal/core/styles"
	"github.com/colonyops/powerbar/internal/core/suggest"
)

const (
	// boxTop is the screen row of the box's top border, below the host header.
	boxTop      = 3
	maxBoxWidth = 72
	minBoxWidth = 30
	minListRows = 3

	// chromeRows counts border, input, divider and footer rows.
	chromeRows = 5
	// listOffset is the inner line of the first list row: input, divider.
	listOffset = 2
	// innerPad is the horizontal space taken by border and padding.
	innerPad = 4
)

// Snapshot is the state a frame is rendered from.
type Snapshot struct {
	State     State
	Input     string
	Sets      []suggest.Set
	Selected  int
	NoResults bool
	Short     bool
}

// RowKind classifies a rendered list row.
type RowKind int

const (
	RowHeading RowKind = iota
	RowItem
	RowInfo
)

// Row is one line of the suggestion list. Entry is the flattened index the
// row belongs to, or -1 for headings.
type Row struct {
	Kind     RowKind
	Entry    int
	Category suggest.Category
	Item     suggest.Item
}

// Span is the half-open row range [Top, Bottom) of one entry.
type Span struct {
	Top, Bottom int
}

// Layout places a Snapshot on screen. It is derived from the snapshot and the
// terminal size alone.
type Layout struct {
	X, Y          int
	Width, Height int
	Inner         int
	Rows          []Row
	Spans         []Span
	Offset        int
	Visible       int
}

// BuildRows lays out sets as headings followed by one row per item and an
// extra row for items that show secondary text.
func BuildRows(sets []suggest.Set) ([]Row, []Span) {
	var (
		rows  []Row
		spans []Span
		entry int
	)
	for _, set := range sets {
		rows = append(rows, Row{Kind: RowHeading, Entry: -1, Category: set.Category})
		for _, it := range set.Items {
			top := len(rows)
			rows = append(rows, Row{Kind: RowItem, Entry: entry, Category: set.Category, Item: it})
			if it.Info() != "" {
				rows = append(rows, Row{Kind: RowInfo, Entry: entry, Category: set.Category, Item: it})
			}
			spans = append(spans, Span{Top: top, Bottom: len(rows)})
			entry++
		}
	}
	return rows, spans
}

// ComputeLayout positions the box for a screen of width x height with the
// list scrolled to offset.
func ComputeLayout(s Snapshot, width, height, offset int) Layout {
	boxW := min(max(width-4, minBoxWidth), maxBoxWidth)
	rows, spans := BuildRows(s.Sets)

	budget := max(height-boxTop-chromeRows-1, minListRows)
	visible := min(len(rows), budget)
	offset = max(min(offset, len(rows)-visible), 0)

	return Layout{
		X:       max((width-boxW)/2, 0),
		Y:       boxTop,
		Width:   boxW,
		Height:  visible + chromeRows,
		Inner:   boxW - innerPad,
		Rows:    rows,
		Spans:   spans,
		Offset:  offset,
		Visible: visible,
	}
}

// Contains reports whether the screen cell (x, y) is inside the box.
func (l Layout) Contains(x, y int) bool {
	return x >= l.X && x < l.X+l.Width && y >= l.Y && y < l.Y+l.Height
}

// HitTest returns the entry rendered at screen cell (x, y).
func (l Layout) HitTest(x, y int) (int, bool) {
	if !l.Contains(x, y) {
		return -1, false
	}
	line := y - l.Y - 1 - listOffset
	if line < 0 || line >= l.Visible {
		return -1, false
	}
	row := l.Rows[l.Offset+line]
	if row.Entry < 0 {
		return -1, false
	}
	return row.Entry, true
}

// Render draws the overlay box. It returns "" when the overlay is closed.
func Render(s Snapshot, l Layout) string {
	if !s.State.Open() {
		return ""
	}

	lines := make([]string, 0, l.Visible+3)
	lines = append(lines, fit(s.Input, l.Inner))
	lines = append(lines, styles.DividerStyle.Render(strings.Repeat("─", l.Inner)))

	for i := l.Offset; i < l.Offset+l.Visible; i++ {
		lines = append(lines, renderRow(l.Rows[i], s.Selected, l.Inner))
	}

	lines = append(lines, fit(footer(s), l.Inner))
	return styles.OverlayBoxStyle.Render(strings.Join(lines, "\n"))
}

func renderRow(r Row, selected, width int) string {
	switch r.Kind {
	case RowHeading:
		return fit(styles.OverlayCategoryStyle.Render(r.Category.Label()), width)
	case RowInfo:
		text := "   " + ansi.Truncate(r.Item.Info(), width-3, "…")
		if r.Entry == selected {
			return styles.OverlaySelectedStyle.Render(pad(text, width))
		}
		return fit(styles.OverlayInfoStyle.Render(text), width)
	default:
		icon := styles.OverlayItemStyle.Render(styles.KindIcon(string(r.Item.Kind)))
		if r.Item.ThumbnailURL != "" {
			icon = styles.OverlayThumbnailStyle.Render(styles.KindIcon(string(r.Item.Kind)))
		}
		name := ansi.Truncate(r.Item.Name, width-3, "…")
		if r.Entry == selected {
			return styles.OverlaySelectedStyle.Render(pad(" "+styles.KindIcon(string(r.Item.Kind))+" "+name, width))
		}
		return fit(" "+icon+" "+styles.OverlayItemStyle.Render(name), width)
	}
}

func footer(s Snapshot) string {
	switch {
	case s.State == StateOpenSearching:
		return styles.OverlaySpinnerStyle.Render("Searching…")
	case s.NoResults:
		return styles.OverlayPlaceholder.Render("No results")
	case s.Short:
		return styles.OverlayPlaceholder.Render("Type at least 2 characters")
	case s.State == StateOpenWithResults:
		return styles.HelpBarStyle.Render("↑↓ move  tab category  enter open  esc clear")
	default:
		return ""
	}
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	return pad(ansi.Truncate(s, width, "…"), width)
}

func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// Overlay composites the rendered box over background.
func Overlay(box string, l Layout, background string) string {
	if box == "" {
		return background
	}
	bg := lipgloss.NewLayer(background)
	fg := lipgloss.NewLayer(box).X(l.X).Y(l.Y).Z(1)
	return lipgloss.NewCompositor(bg, fg).Render()
}
