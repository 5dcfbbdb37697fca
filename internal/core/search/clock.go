package search

import "time"

// Clock provides time-related operations for testability.
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
}

// Timer represents a timer that can be stopped and provides a channel.
type Timer interface {
	Stop() bool
	C() <-chan time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// NewTimer creates a new time.Timer.
func (RealClock) NewTimer(d time.Duration) Timer {
	return &realTimer{timer: time.NewTimer(d)}
}

type realTimer struct {
	timer *time.Timer
}

func (t *realTimer) Stop() bool          { return t.timer.Stop() }
func (t *realTimer) C() <-chan time.Time { return t.timer.C }
