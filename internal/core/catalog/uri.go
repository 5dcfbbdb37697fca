// Package catalog parses and formats Spotify catalog URIs.
package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidURI is returned when a string is not a recognizable catalog URI.
var ErrInvalidURI = errors.New("invalid spotify uri")

// webBase is the host used for open.spotify.com links.
const webBase = "https://open.spotify.com"

// URI identifies a catalog object such as spotify:track:4uLU6hMCjMI75M1A2tKUQC.
type URI struct {
	Kind string
	ID   string
}

// ParseURI accepts either the spotify: URI form or an open.spotify.com link.
func ParseURI(s string) (URI, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return URI{}, ErrInvalidURI
	}

	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return parseWebURL(s)
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 || parts[0] != "spotify" || parts[1] == "" || parts[2] == "" {
		return URI{}, fmt.Errorf("%q: %w", s, ErrInvalidURI)
	}
	return URI{Kind: parts[1], ID: parts[2]}, nil
}

func parseWebURL(s string) (URI, error) {
	u, err := url.Parse(s)
	if err != nil {
		return URI{}, fmt.Errorf("%q: %w", s, ErrInvalidURI)
	}
	if u.Host != "open.spotify.com" {
		return URI{}, fmt.Errorf("%q: unexpected host %q: %w", s, u.Host, ErrInvalidURI)
	}

	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	// Localized links carry a leading "intl-xx" segment.
	if len(segs) == 3 && strings.HasPrefix(segs[0], "intl-") {
		segs = segs[1:]
	}
	if len(segs) != 2 || segs[0] == "" || segs[1] == "" {
		return URI{}, fmt.Errorf("%q: %w", s, ErrInvalidURI)
	}
	return URI{Kind: segs[0], ID: segs[1]}, nil
}

// String renders the spotify: form.
func (u URI) String() string {
	if u.Kind == "" || u.ID == "" {
		return ""
	}
	return "spotify:" + u.Kind + ":" + u.ID
}

// WebURL returns the open.spotify.com link for the object.
func (u URI) WebURL() string {
	return webBase + u.Path()
}

// Path returns the page path of the object inside the client, e.g.
// /album/1ATL5GLyefJaxhQzSPVrLX.
func (u URI) Path() string {
	return "/" + u.Kind + "/" + u.ID
}
