package spotify

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/colonyops/powerbar/internal/core/suggest"
)

// searchTypes is the type filter sent with every search.
const searchTypes = "album,artist,playlist,track"

type image struct {
	URL string `json:"url"`
}

type artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type owner struct {
	DisplayName string `json:"display_name"`
}

type album struct {
	Images []image `json:"images"`
}

// item is the union of the track, artist, album and playlist objects. Only
// the fields the overlay shows are decoded.
type item struct {
	ID      string   `json:"id"`
	URI     string   `json:"uri"`
	Type    string   `json:"type"`
	Name    string   `json:"name"`
	Images  []image  `json:"images"`
	Album   *album   `json:"album"`
	Artists []artist `json:"artists"`
	Owner   *owner   `json:"owner"`
}

type paging struct {
	Items []*item `json:"items"`
}

type searchResponse struct {
	Tracks    *paging `json:"tracks"`
	Artists   *paging `json:"artists"`
	Albums    *paging `json:"albums"`
	Playlists *paging `json:"playlists"`
}

// Search queries the catalog for tracks, artists, albums and playlists,
// requesting limit results per category. It satisfies search.Searcher.
func (c *Client) Search(ctx context.Context, query string, limit int) (map[suggest.Category][]suggest.Item, error) {
	q := url.Values{}
	q.Set("q", strings.TrimSpace(query))
	q.Set("type", searchTypes)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("include_external", "audio")
	if c.market != "" {
		q.Set("market", c.market)
	}

	var resp searchResponse
	if err := c.getJSON(ctx, "/v1/search", q, &resp); err != nil {
		return nil, err
	}

	return map[suggest.Category][]suggest.Item{
		suggest.CategoryTracks:    convertItems(resp.Tracks),
		suggest.CategoryArtists:   convertItems(resp.Artists),
		suggest.CategoryAlbums:    convertItems(resp.Albums),
		suggest.CategoryPlaylists: convertItems(resp.Playlists),
	}, nil
}

// convertItems maps a page of API objects to suggestions. Null entries, which
// the API returns for unavailable playlists, are dropped.
func convertItems(p *paging) []suggest.Item {
	if p == nil {
		return nil
	}
	out := make([]suggest.Item, 0, len(p.Items))
	for _, it := range p.Items {
		if it == nil {
			continue
		}
		out = append(out, it.suggestion())
	}
	return out
}

func (it *item) suggestion() suggest.Item {
	return suggest.Item{
		ID:            it.ID,
		URI:           it.URI,
		Kind:          suggest.ItemKind(it.Type),
		Name:          it.Name,
		ThumbnailURL:  it.thumbnail(),
		SecondaryText: it.secondary(),
	}
}

// thumbnail is the album cover for tracks and the first own image otherwise.
func (it *item) thumbnail() string {
	images := it.Images
	if it.Type == string(suggest.KindTrack) {
		images = nil
		if it.Album != nil {
			images = it.Album.Images
		}
	}
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}

// secondary is the artist list for tracks and albums and the owner for
// playlists.
func (it *item) secondary() string {
	if it.Type == string(suggest.KindPlaylist) {
		if it.Owner == nil {
			return ""
		}
		return it.Owner.DisplayName
	}
	names := make([]string, 0, len(it.Artists))
	for _, a := range it.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}
