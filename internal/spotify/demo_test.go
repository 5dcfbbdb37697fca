package spotify

import (
	"context"
	"testing"

	"github.com/colonyops/powerbar/internal/core/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemo_Search(t *testing.T) {
	d := NewDemo()

	raw, err := d.Search(context.Background(), "daft pu", 2)
	require.NoError(t, err)

	assert.Len(t, raw[suggest.CategoryTracks], 2)
	assert.Len(t, raw[suggest.CategoryAlbums], 2)
	require.Len(t, raw[suggest.CategoryArtists], 1)
	assert.Equal(t, "Daft Punk", raw[suggest.CategoryArtists][0].Name)
	assert.Empty(t, raw[suggest.CategoryPlaylists])
}

func TestDemo_Search_no_match(t *testing.T) {
	raw, err := NewDemo().Search(context.Background(), "zzzz", 3)
	require.NoError(t, err)
	assert.True(t, suggest.NewResult(raw).Empty())
}

func TestDemo_Player(t *testing.T) {
	d := NewDemo()
	ctx := context.Background()

	require.NoError(t, d.Play(ctx, "spotify:album:2noRn2Aes5aoNVsU6iWThc"))
	assert.Equal(t, []string{"spotify:album:2noRn2Aes5aoNVsU6iWThc"}, d.Played())

	tracks, err := d.AlbumTracks(ctx, "2noRn2Aes5aoNVsU6iWThc", 50)
	require.NoError(t, err)
	require.Len(t, tracks, 2)

	for _, tr := range tracks {
		require.NoError(t, d.Enqueue(ctx, tr.URI))
	}
	assert.Len(t, d.Queue(), 2)

	assert.ErrorIs(t, d.Enqueue(ctx, "spotify:artist:4tZwfgrHOc3mvqYlEYSvVi"), ErrNotQueueable)

	_, err = d.AlbumTracks(ctx, "missing", 50)
	assert.Error(t, err)
}
