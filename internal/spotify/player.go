package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/colonyops/powerbar/internal/core/catalog"
	"github.com/colonyops/powerbar/internal/core/suggest"
)

// MaxAlbumTracks is the page size used when expanding an album for the queue.
const MaxAlbumTracks = 50

type playBody struct {
	URIs       []string `json:"uris,omitempty"`
	ContextURI string   `json:"context_uri,omitempty"`
}

// Play starts playback of uri on the active device. Tracks and episodes are
// played directly; albums, artists and playlists are played as a context.
func (c *Client) Play(ctx context.Context, uri string) error {
	u, err := catalog.ParseURI(uri)
	if err != nil {
		return err
	}

	var body playBody
	switch u.Kind {
	case "track", "episode":
		body.URIs = []string{u.String()}
	default:
		body.ContextURI = u.String()
	}

	_, err = c.do(ctx, http.MethodPut, "/v1/me/player/play", nil, body)
	return err
}

// Enqueue appends a track or episode to the playback queue.
func (c *Client) Enqueue(ctx context.Context, uri string) error {
	u, err := catalog.ParseURI(uri)
	if err != nil {
		return err
	}
	if u.Kind != "track" && u.Kind != "episode" {
		return fmt.Errorf("%s: %w", u, ErrNotQueueable)
	}

	q := url.Values{}
	q.Set("uri", u.String())
	_, err = c.do(ctx, http.MethodPost, "/v1/me/player/queue", q, nil)
	return err
}

type albumTracksResponse struct {
	Items []*item `json:"items"`
}

// AlbumTracks returns up to limit tracks of the album with the given ID.
func (c *Client) AlbumTracks(ctx context.Context, albumID string, limit int) ([]suggest.Item, error) {
	if limit <= 0 || limit > MaxAlbumTracks {
		limit = MaxAlbumTracks
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if c.market != "" {
		q.Set("market", c.market)
	}

	var resp albumTracksResponse
	if err := c.getJSON(ctx, "/v1/albums/"+url.PathEscape(albumID)+"/tracks", q, &resp); err != nil {
		return nil, err
	}
	return convertItems(&paging{Items: resp.Items}), nil
}
