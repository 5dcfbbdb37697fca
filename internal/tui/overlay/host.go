package overlay

import (
	"context"

	"github.com/colonyops/powerbar/internal/core/suggest"
)

// Navigator shows a catalog page in the host.
type Navigator interface {
	Navigate(uri string) error
}

// ItemNavigator is implemented by navigators that use the whole item, for
// example to title the page.
type ItemNavigator interface {
	NavigateItem(it suggest.Item) error
}

// Player controls playback on the user's active device.
type Player interface {
	Play(ctx context.Context, uri string) error
	Enqueue(ctx context.Context, uri string) error
	AlbumTracks(ctx context.Context, albumID string, limit int) ([]suggest.Item, error)
}

// Notifier surfaces messages to the user.
type Notifier interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(uri string) error

// Navigate calls f.
func (f NavigatorFunc) Navigate(uri string) error { return f(uri) }
