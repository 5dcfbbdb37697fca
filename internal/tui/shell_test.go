package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/powerbar/internal/core/catalog"
	"github.com/colonyops/powerbar/pkg/executil"
)

func TestShell_NavigateRecordsHistory(t *testing.T) {
	s := NewShell(&executil.RecordingExecutor{}, "")
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.Navigate("spotify:artist:4tZwfgrHOc3mvqYlEYSvVi"))
	require.NoError(t, s.NavigateItem(spotifyDiscovery()))

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, catalog.URI{Kind: "album", ID: "2noRn2Aes5aoNVsU6iWThc"}, cur.URI)
	assert.Equal(t, "Discovery", cur.Title)
	assert.Equal(t, fixed, cur.VisitedAt)
	assert.Equal(t, 2, s.History().Len())
}

func TestShell_NavigateRejectsInvalidURI(t *testing.T) {
	s := NewShell(&executil.RecordingExecutor{}, "xdg-open")

	err := s.Navigate("spotify:album")

	require.ErrorIs(t, err, catalog.ErrInvalidURI)
	assert.Equal(t, 0, s.History().Len())
	assert.Nil(t, s.Flush())
}

func TestShell_BackForward(t *testing.T) {
	s := NewShell(nil, "")
	require.NoError(t, s.Navigate("spotify:track:0DiWol3AO6WpXZgp0goxAV"))
	require.NoError(t, s.Navigate("spotify:album:2noRn2Aes5aoNVsU6iWThc"))

	assert.True(t, s.Back())
	cur, _ := s.Current()
	assert.Equal(t, "track", cur.URI.Kind)
	assert.False(t, s.Back())

	assert.True(t, s.Forward())
	cur, _ = s.Current()
	assert.Equal(t, "album", cur.URI.Kind)
	assert.False(t, s.Forward())
}

func TestShell_FlushWithoutOpenCommand(t *testing.T) {
	rec := &executil.RecordingExecutor{}
	s := NewShell(rec, "")
	require.NoError(t, s.Navigate("spotify:track:0DiWol3AO6WpXZgp0goxAV"))

	assert.Nil(t, s.Flush())
	assert.Empty(t, rec.Commands())
}

func TestShell_FlushOpensWebURL(t *testing.T) {
	rec := &executil.RecordingExecutor{}
	s := NewShell(rec, "open -g")
	require.NoError(t, s.Navigate("spotify:track:0DiWol3AO6WpXZgp0goxAV"))

	cmd := s.Flush()
	require.NotNil(t, cmd)
	msg, ok := cmd().(openDoneMsg)
	require.True(t, ok)

	require.NoError(t, msg.err)
	assert.Equal(t, "https://open.spotify.com/track/0DiWol3AO6WpXZgp0goxAV", msg.url)
	assert.Equal(t, []executil.RecordedCommand{
		{Cmd: "open", Args: []string{"-g", "https://open.spotify.com/track/0DiWol3AO6WpXZgp0goxAV"}},
	}, rec.Commands())

	assert.Nil(t, s.Flush(), "pending visits are handed off once")
}

func TestShell_FlushReportsError(t *testing.T) {
	rec := &executil.RecordingExecutor{Errors: map[string]error{"xdg-open": errors.New("boom")}}
	s := NewShell(rec, "xdg-open")
	require.NoError(t, s.Navigate("spotify:playlist:37i9dQZF1DX0XUsuxWHRQd"))

	msg := s.Flush()().(openDoneMsg)

	require.Error(t, msg.err)
	assert.Contains(t, msg.err.Error(), "boom")
}

func TestShell_SetOpenCommand(t *testing.T) {
	rec := &executil.RecordingExecutor{}
	s := NewShell(rec, "xdg-open")
	s.SetOpenCommand("")

	require.NoError(t, s.Navigate("spotify:track:0DiWol3AO6WpXZgp0goxAV"))

	assert.Nil(t, s.Flush())
}
