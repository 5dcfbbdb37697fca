package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCached_ServesRepeatedQueries(t *testing.T) {
	s := &recordingSearcher{}
	c := NewCached(s, time.Minute)

	first, err := c.Search(context.Background(), "Daft", 3)
	require.NoError(t, err)
	second, err := c.Search(context.Background(), "daft", 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, s.queries, 1)

	_, err = c.Search(context.Background(), "daft", 5)
	require.NoError(t, err)
	assert.Len(t, s.queries, 2, "limit is part of the key")
}

func TestCached_DoesNotCacheErrors(t *testing.T) {
	s := &recordingSearcher{err: errors.New("boom")}
	c := NewCached(s, time.Minute)

	_, err := c.Search(context.Background(), "abc", 3)
	require.Error(t, err)

	s.err = nil
	_, err = c.Search(context.Background(), "abc", 3)
	require.NoError(t, err)
	assert.Len(t, s.queries, 2)
}

func TestCached_Flush(t *testing.T) {
	s := &recordingSearcher{}
	c := NewCached(s, time.Minute)

	_, _ = c.Search(context.Background(), "abc", 3)
	c.Flush()
	_, _ = c.Search(context.Background(), "abc", 3)

	assert.Len(t, s.queries, 2)
}
