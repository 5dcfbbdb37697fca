// Package history tracks the catalog pages the host has visited.
package history

import (
	"time"

	"github.com/colonyops/powerbar/internal/core/catalog"
)

// DefaultLimit bounds how many entries a Stack keeps.
const DefaultLimit = 50

// Entry represents a visited catalog page.
type Entry struct {
	URI       catalog.URI `json:"uri"`
	Title     string      `json:"title"`
	VisitedAt time.Time   `json:"visited_at"`
}

// Stack is a browser-style back/forward history. The zero value is not usable;
// use New.
type Stack struct {
	entries []Entry
	pos     int
	limit   int
}

// New returns an empty stack bounded to limit entries.
func New(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{pos: -1, limit: limit}
}

// Push records e as the current page and drops any forward entries. Pushing
// the page that is already current only refreshes its title and timestamp.
func (s *Stack) Push(e Entry) {
	if cur, ok := s.Current(); ok && cur.URI == e.URI {
		s.entries[s.pos] = e
		return
	}

	s.entries = append(s.entries[:s.pos+1], e)
	if len(s.entries) > s.limit {
		s.entries = s.entries[len(s.entries)-s.limit:]
	}
	s.pos = len(s.entries) - 1
}

// Current returns the page being shown.
func (s *Stack) Current() (Entry, bool) {
	if s.pos < 0 {
		return Entry{}, false
	}
	return s.entries[s.pos], true
}

// CanBack reports whether Back would move.
func (s *Stack) CanBack() bool { return s.pos > 0 }

// CanForward reports whether Forward would move.
func (s *Stack) CanForward() bool { return s.pos >= 0 && s.pos < len(s.entries)-1 }

// Back moves to the previous page.
func (s *Stack) Back() (Entry, bool) {
	if !s.CanBack() {
		return Entry{}, false
	}
	s.pos--
	return s.entries[s.pos], true
}

// Forward moves to the next page.
func (s *Stack) Forward() (Entry, bool) {
	if !s.CanForward() {
		return Entry{}, false
	}
	s.pos++
	return s.entries[s.pos], true
}

// Pos returns the index of the current entry, or -1 when empty.
func (s *Stack) Pos() int { return s.pos }

// Len returns the number of stored entries.
func (s *Stack) Len() int { return len(s.entries) }

// Entries returns the stored entries oldest first.
func (s *Stack) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
