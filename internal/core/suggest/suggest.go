// Package suggest defines the categorized suggestion model shown by the quick
// search overlay.
package suggest

import (
	"slices"
	"strings"
)

// Category groups suggestions in the overlay.
type Category string

const (
	CategoryTracks    Category = "tracks"
	CategoryArtists   Category = "artists"
	CategoryAlbums    Category = "albums"
	CategoryPlaylists Category = "playlists"
)

// priority fixes the display order of categories. Lower sorts first.
var priority = map[Category]int{
	CategoryTracks:    0,
	CategoryArtists:   1,
	CategoryAlbums:    2,
	CategoryPlaylists: 3,
}

// Categories returns all known categories in display order.
func Categories() []Category {
	out := make([]Category, 0, len(priority))
	for c := range priority {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Category) int { return priority[a] - priority[b] })
	return out
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := priority[c]
	return ok
}

// Priority returns the sort position of c, or -1 for unknown categories.
func (c Category) Priority() int {
	p, ok := priority[c]
	if !ok {
		return -1
	}
	return p
}

// Label returns the heading shown above the category's items.
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// ItemKind is the catalog kind of a suggestion. Unknown kinds pass through
// unchanged.
type ItemKind string

const (
	KindTrack    ItemKind = "track"
	KindArtist   ItemKind = "artist"
	KindAlbum    ItemKind = "album"
	KindPlaylist ItemKind = "playlist"
)

// HasInfo reports whether secondary text is displayed for the kind.
func (k ItemKind) HasInfo() bool {
	return k == KindTrack || k == KindAlbum
}

// Item is a single selectable suggestion. Identity is ID.
type Item struct {
	ID            string   `json:"id"`
	URI           string   `json:"uri"`
	Kind          ItemKind `json:"kind"`
	Name          string   `json:"name"`
	ThumbnailURL  string   `json:"thumbnailUrl,omitempty"`
	SecondaryText string   `json:"secondaryText,omitempty"`
}

// IsZero reports whether the item carries no data at all.
func (i Item) IsZero() bool {
	return i == Item{}
}

// Info returns the secondary line for the item, or "" when its kind does not
// show one.
func (i Item) Info() string {
	if !i.Kind.HasInfo() {
		return ""
	}
	return i.SecondaryText
}

// Set is the non-empty list of items for one category.
type Set struct {
	Category Category `json:"category"`
	Items    []Item   `json:"items"`
}

// Entry is one position of the flattened suggestion list.
type Entry struct {
	Item     Item
	Category Category
}

// Categorize turns a raw per-category result into display-ordered sets.
// Empty categories, zero items and unknown categories are dropped.
func Categorize(raw map[Category][]Item) []Set {
	sets := make([]Set, 0, len(raw))
	for _, cat := range Categories() {
		items := raw[cat]
		kept := make([]Item, 0, len(items))
		for _, it := range items {
			if it.IsZero() {
				continue
			}
			kept = append(kept, it)
		}
		if len(kept) == 0 {
			continue
		}
		sets = append(sets, Set{Category: cat, Items: kept})
	}
	return sets
}

// Flatten concatenates sets in order, tagging each item with its category.
func Flatten(sets []Set) []Entry {
	n := 0
	for _, s := range sets {
		n += len(s.Items)
	}
	out := make([]Entry, 0, n)
	for _, s := range sets {
		for _, it := range s.Items {
			out = append(out, Entry{Item: it, Category: s.Category})
		}
	}
	return out
}

// Result holds the categorized sets together with their flattened form so the
// two can never disagree.
type Result struct {
	sets []Set
	flat []Entry
}

// NewResult categorizes raw and flattens it.
func NewResult(raw map[Category][]Item) Result {
	sets := Categorize(raw)
	return Result{sets: sets, flat: Flatten(sets)}
}

// Sets returns the categorized sets in display order.
func (r Result) Sets() []Set { return r.sets }

// Flat returns the flattened entry list the selection cursor addresses.
func (r Result) Flat() []Entry { return r.flat }

// Len returns the number of items across all categories.
func (r Result) Len() int { return len(r.flat) }

// Empty reports whether no category had items.
func (r Result) Empty() bool { return len(r.flat) == 0 }
