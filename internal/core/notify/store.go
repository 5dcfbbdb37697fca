// Package notify defines notification domain types and storage.
package notify

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification represents a single notification event.
type Notification struct {
	ID        string
	Level     Level
	Message   string
	CreatedAt time.Time
}

// Store keeps published notifications.
type Store interface {
	Save(ctx context.Context, n Notification) (string, error)
	List(ctx context.Context) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// DefaultHistorySize is the number of notifications a MemoryStore keeps.
const DefaultHistorySize = 100

// MemoryStore is a bounded in-memory Store. The oldest notification is
// dropped once capacity is reached.
type MemoryStore struct {
	mu    sync.Mutex
	items []Notification
	limit int
}

// NewMemoryStore returns a store that keeps at most limit notifications.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &MemoryStore{limit: limit}
}

// Save assigns an ID and stores n.
func (s *MemoryStore) Save(_ context.Context, n Notification) (string, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, n)
	if len(s.items) > s.limit {
		s.items = slices.Delete(s.items, 0, len(s.items)-s.limit)
	}
	return n.ID, nil
}

// List returns stored notifications, newest first.
func (s *MemoryStore) List(context.Context) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := slices.Clone(s.items)
	slices.Reverse(out)
	return out, nil
}

// Clear removes every notification.
func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return nil
}

// Count returns the number of stored notifications.
func (s *MemoryStore) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}
