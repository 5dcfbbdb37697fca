package selection

// Viewport is a vertically scrolling window of Height rows over Content rows.
type Viewport struct {
	Offset  int
	Height  int
	Content int
}

// Reveal scrolls so the rows [top, bottom) are visible. Nothing changes when
// the span is already fully visible; otherwise top is aligned with the top of
// the window, clamped so the window never runs past the content.
func (v *Viewport) Reveal(top, bottom int) {
	if v.Height <= 0 {
		return
	}
	if top >= v.Offset && bottom <= v.Offset+v.Height {
		return
	}

	maxOffset := max(v.Content-v.Height, 0)
	v.Offset = max(min(top, maxOffset), 0)
}

// Visible reports whether row is inside the window.
func (v Viewport) Visible(row int) bool {
	return row >= v.Offset && row < v.Offset+v.Height
}

// Follow returns a Scroller that reveals the row span spans reports for each
// index.
func (v *Viewport) Follow(spans func(index int) (top, bottom int)) Scroller {
	return ScrollerFunc(func(index int) {
		top, bottom := spans(index)
		v.Reveal(top, bottom)
	})
}
