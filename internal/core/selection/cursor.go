// Package selection tracks the highlighted suggestion within a flattened,
// categorized list.
package selection

import "github.com/colonyops/powerbar/internal/core/suggest"

// Scroller keeps the entry at an index visible.
type Scroller interface {
	ScrollIntoView(index int)
}

// ScrollerFunc adapts a function to the Scroller interface.
type ScrollerFunc func(index int)

// ScrollIntoView calls f.
func (f ScrollerFunc) ScrollIntoView(index int) { f(index) }

// Cursor is the selection position over a flattened suggestion list. The
// zero value is an empty cursor with no scroller.
type Cursor struct {
	entries  []suggest.Entry
	index    int
	valid    bool
	scroller Scroller
}

// New returns an empty cursor that reports every move to s. s may be nil.
func New(s Scroller) *Cursor {
	return &Cursor{scroller: s}
}

// SetScroller replaces the scroll side effect.
func (c *Cursor) SetScroller(s Scroller) { c.scroller = s }

// Reset points the cursor at the first of entries, or clears it when entries
// is empty.
func (c *Cursor) Reset(entries []suggest.Entry) {
	c.entries = entries
	c.index = 0
	c.valid = len(entries) > 0
	c.scroll()
}

// Clear empties the cursor.
func (c *Cursor) Clear() { c.Reset(nil) }

// Len returns the number of addressable entries.
func (c *Cursor) Len() int { return len(c.entries) }

// MoveBy moves delta positions, wrapping at both ends.
func (c *Cursor) MoveBy(delta int) {
	n := len(c.entries)
	if n == 0 {
		return
	}
	c.index = ((c.index+delta)%n + n) % n
	c.scroll()
}

// NextCategory moves to the first entry after the current one whose category
// differs, or to the first entry when no later category exists.
func (c *Cursor) NextCategory() {
	n := len(c.entries)
	if n == 0 {
		return
	}

	cur := c.entries[c.index].Category
	next := 0
	for i := c.index + 1; i < n; i++ {
		if c.entries[i].Category != cur {
			next = i
			break
		}
	}
	c.index = next
	c.scroll()
}

// PrevCategory moves to the first entry of the nearest preceding category,
// wrapping from the first category to the last. With a single category it
// does nothing.
func (c *Cursor) PrevCategory() {
	n := len(c.entries)
	if n == 0 {
		return
	}

	cur := c.entries[c.index].Category
	for step := 1; step < n; step++ {
		j := ((c.index-step)%n + n) % n
		if c.entries[j].Category == cur {
			continue
		}
		c.index = c.firstOf(j)
		c.scroll()
		return
	}
}

// firstOf walks back from i to the first entry sharing its category.
func (c *Cursor) firstOf(i int) int {
	cat := c.entries[i].Category
	for i > 0 && c.entries[i-1].Category == cat {
		i--
	}
	return i
}

// Index returns the current position. ok is false when the list is empty.
func (c *Cursor) Index() (int, bool) {
	if !c.valid {
		return 0, false
	}
	return c.index, true
}

// Current returns the highlighted entry.
func (c *Cursor) Current() (suggest.Entry, bool) {
	if !c.valid {
		return suggest.Entry{}, false
	}
	return c.entries[c.index], true
}

// Select moves directly to index. Out-of-range indexes are ignored.
func (c *Cursor) Select(index int) bool {
	if index < 0 || index >= len(c.entries) {
		return false
	}
	c.index = index
	c.scroll()
	return true
}

func (c *Cursor) scroll() {
	if c.scroller == nil || !c.valid {
		return
	}
	c.scroller.ScrollIntoView(c.index)
}
