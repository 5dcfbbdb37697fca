package notify

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveAssignsID(t *testing.T) {
	s := NewMemoryStore(10)

	id, err := s.Save(context.Background(), Notification{Level: LevelInfo, Message: "Added to queue"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
}

func TestMemoryStore_ListNewestFirstAndBounded(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	for i := range 5 {
		_, err := s.Save(ctx, Notification{Message: fmt.Sprint(i)})
		require.NoError(t, err)
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "4", list[0].Message)
	assert.Equal(t, "2", list[2].Message)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestMemoryStore_Clear(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()
	_, _ = s.Save(ctx, Notification{Message: "x"})

	require.NoError(t, s.Clear(ctx))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
