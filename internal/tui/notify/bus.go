// Package notify routes user-facing notifications from TUI components to the
// toast layer and the notification history.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/colonyops/powerbar/internal/core/logging"
	"github.com/colonyops/powerbar/internal/core/notify"
	"github.com/rs/zerolog"
)

// Subscriber is a callback invoked when a notification is published.
type Subscriber func(notify.Notification)

// Bus is a synchronous in-process notification bus. Subscribers run inline on
// the publishing goroutine, which in practice is the Bubble Tea Update loop.
type Bus struct {
	store       notify.Store
	subscribers []Subscriber
	mu          sync.Mutex
	now         func() time.Time
	log         zerolog.Logger
}

// NewBus creates a notification bus backed by the given store.
// If store is nil, notifications are dispatched to subscribers but not kept.
func NewBus(store notify.Store) *Bus {
	return &Bus{
		store: store,
		now:   time.Now,
		log:   logging.Component("notify"),
	}
}

// Subscribe registers a callback that will be invoked on every Publish.
func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish stores n and dispatches it to all subscribers.
func (b *Bus) Publish(n notify.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = b.now()
	}

	// Store first so subscribers see the assigned ID.
	if b.store != nil {
		id, err := b.store.Save(context.Background(), n)
		if err != nil {
			b.log.Error().Err(err).Str("message", n.Message).Msg("failed to store notification")
		} else {
			n.ID = id
		}
	}

	b.log.Debug().Str("level", string(n.Level)).Str("message", n.Message).Msg("notification")

	b.mu.Lock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
}

// Errorf publishes an error-level notification.
func (b *Bus) Errorf(format string, args ...any) {
	b.publishf(notify.LevelError, format, args...)
}

// Warnf publishes a warning-level notification.
func (b *Bus) Warnf(format string, args ...any) {
	b.publishf(notify.LevelWarning, format, args...)
}

// Infof publishes an info-level notification.
func (b *Bus) Infof(format string, args ...any) {
	b.publishf(notify.LevelInfo, format, args...)
}

func (b *Bus) publishf(level notify.Level, format string, args ...any) {
	b.Publish(notify.Notification{
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}

// History returns stored notifications (newest first).
// Returns nil if no store is configured.
func (b *Bus) History() ([]notify.Notification, error) {
	if b.store == nil {
		return nil, nil
	}
	return b.store.List(context.Background())
}

// Clear deletes all stored notifications.
func (b *Bus) Clear() error {
	if b.store == nil {
		return nil
	}
	return b.store.Clear(context.Background())
}
