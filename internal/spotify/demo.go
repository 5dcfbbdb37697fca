package spotify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/colonyops/powerbar/internal/core/suggest"
)

// Demo is an offline catalog for trying the overlay without credentials.
// Playback and queue calls are recorded instead of sent anywhere.
type Demo struct {
	mu     sync.Mutex
	queue  []string
	played []string
}

// NewDemo returns an offline catalog.
func NewDemo() *Demo {
	return &Demo{}
}

func demoItem(kind suggest.ItemKind, id, name, secondary string) suggest.Item {
	return suggest.Item{
		ID:            id,
		URI:           "spotify:" + string(kind) + ":" + id,
		Kind:          kind,
		Name:          name,
		SecondaryText: secondary,
	}
}

var demoCatalog = map[suggest.Category][]suggest.Item{
	suggest.CategoryTracks: {
		demoItem(suggest.KindTrack, "0DiWol3AO6WpXZgp0goxAV", "One More Time", "Daft Punk"),
		demoItem(suggest.KindTrack, "2cGxRwrMyEAp8dEbuZaVv6", "Around the World", "Daft Punk"),
		demoItem(suggest.KindTrack, "5W3cjX2J3tjhG8zb6u0qHn", "Harder, Better, Faster, Stronger", "Daft Punk"),
		demoItem(suggest.KindTrack, "69kOkLUCkxIZYexIgSG8rq", "Get Lucky", "Daft Punk, Pharrell Williams, Nile Rodgers"),
		demoItem(suggest.KindTrack, "3n3Ppam7vgaVa1iaRUc9Lp", "Mr. Brightside", "The Killers"),
		demoItem(suggest.KindTrack, "7ouMYWpwJ422jRcDASZB7P", "Knights of Cydonia", "Muse"),
		demoItem(suggest.KindTrack, "40riOy7x9W7GXjyGp4pjAv", "Hotel California", "Eagles"),
	},
	suggest.CategoryArtists: {
		demoItem(suggest.KindArtist, "4tZwfgrHOc3mvqYlEYSvVi", "Daft Punk", ""),
		demoItem(suggest.KindArtist, "0C0XlULifJtAgn6ZNCW2eu", "The Killers", ""),
		demoItem(suggest.KindArtist, "12Chz98pHFMPJEknJQMWvI", "Muse", ""),
		demoItem(suggest.KindArtist, "0ECwFtbIWEVNwjlrfc6xoL", "Eagles", ""),
	},
	suggest.CategoryAlbums: {
		demoItem(suggest.KindAlbum, "2noRn2Aes5aoNVsU6iWThc", "Discovery", "Daft Punk"),
		demoItem(suggest.KindAlbum, "5uRdvUR7xCnHmUW8n64n9y", "Homework", "Daft Punk"),
		demoItem(suggest.KindAlbum, "4m2880jivSbbyEGAKfITCa", "Random Access Memories", "Daft Punk"),
		demoItem(suggest.KindAlbum, "6TJmQnO44YE5BtTxH8pop1", "Hot Fuss", "The Killers"),
		demoItem(suggest.KindAlbum, "0eFHYz8NmK75zSplL5qlfM", "Black Holes and Revelations", "Muse"),
	},
	suggest.CategoryPlaylists: {
		demoItem(suggest.KindPlaylist, "37i9dQZF1DX0XUsuxWHRQd", "French Touch Classics", "Spotify"),
		demoItem(suggest.KindPlaylist, "37i9dQZF1DWXRqgorJj26U", "Rock Classics", "Spotify"),
	},
}

// demoAlbumTracks maps album IDs to their track IDs in the demo catalog.
var demoAlbumTracks = map[string][]string{
	"2noRn2Aes5aoNVsU6iWThc": {"0DiWol3AO6WpXZgp0goxAV", "5W3cjX2J3tjhG8zb6u0qHn"},
	"5uRdvUR7xCnHmUW8n64n9y": {"2cGxRwrMyEAp8dEbuZaVv6"},
	"4m2880jivSbbyEGAKfITCa": {"69kOkLUCkxIZYexIgSG8rq"},
	"6TJmQnO44YE5BtTxH8pop1": {"3n3Ppam7vgaVa1iaRUc9Lp"},
	"0eFHYz8NmK75zSplL5qlfM": {"7ouMYWpwJ422jRcDASZB7P"},
}

// Search matches query case-insensitively against item names and secondary
// text, returning at most limit items per category.
func (d *Demo) Search(ctx context.Context, query string, limit int) (map[suggest.Category][]suggest.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	out := make(map[suggest.Category][]suggest.Item, len(demoCatalog))
	for cat, items := range demoCatalog {
		for _, it := range items {
			if limit > 0 && len(out[cat]) >= limit {
				break
			}
			hay := strings.ToLower(it.Name + " " + it.SecondaryText)
			if strings.Contains(hay, needle) {
				out[cat] = append(out[cat], it)
			}
		}
	}
	return out, nil
}

// Play records uri as played.
func (d *Demo) Play(_ context.Context, uri string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.played = append(d.played, uri)
	return nil
}

// Enqueue records uri in the demo queue. Only tracks are accepted.
func (d *Demo) Enqueue(_ context.Context, uri string) error {
	if !strings.HasPrefix(uri, "spotify:track:") {
		return fmt.Errorf("%s: %w", uri, ErrNotQueueable)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, uri)
	return nil
}

// AlbumTracks returns the demo tracks of an album.
func (d *Demo) AlbumTracks(_ context.Context, albumID string, limit int) ([]suggest.Item, error) {
	ids, ok := demoAlbumTracks[albumID]
	if !ok {
		return nil, &APIError{Status: 404, Message: "non existing id"}
	}

	var out []suggest.Item
	for _, id := range ids {
		for _, it := range demoCatalog[suggest.CategoryTracks] {
			if it.ID == id {
				out = append(out, it)
			}
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Queue returns the URIs enqueued so far.
func (d *Demo) Queue() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.queue...)
}

// Played returns the URIs played so far.
func (d *Demo) Played() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.played...)
}
