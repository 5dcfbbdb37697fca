package overlay

import "fmt"

// State is the overlay's interaction state.
type State int

const (
	StateClosed State = iota
	StateOpenEmpty
	StateOpenSearching
	StateOpenWithResults
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpenEmpty:
		return "open-empty"
	case StateOpenSearching:
		return "open-searching"
	case StateOpenWithResults:
		return "open-with-results"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Open reports whether the overlay is visible.
func (s State) Open() bool { return s != StateClosed }
