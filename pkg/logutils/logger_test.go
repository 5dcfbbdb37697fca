package logutils

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "powerbar.log")

	out, err := New("info", path)
	require.NoError(t, err)
	out.Logger.Info().Msg("first")
	out.Logger.Debug().Msg("filtered")
	out.Close()

	out, err = New("info", path)
	require.NoError(t, err)
	out.Logger.Info().Msg("second")
	out.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"first"`)
	assert.Contains(t, string(data), `"message":"second"`)
	assert.NotContains(t, string(data), "filtered")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", "")
	assert.Error(t, err)
}

func TestNew_StdoutUsesGate(t *testing.T) {
	out, err := New("debug", Stdout)
	require.NoError(t, err)
	assert.NotNil(t, out.gate)

	out, err = New("debug", filepath.Join(t.TempDir(), "x.log"))
	require.NoError(t, err)
	defer out.Close()
	assert.Nil(t, out.gate)
	out.Hold()
	out.Release()
}

func TestGate_HoldAndRelease(t *testing.T) {
	var buf bytes.Buffer
	g := NewGate(&buf)

	_, _ = g.Write([]byte("a"))
	assert.Equal(t, "a", buf.String())

	g.Hold()
	_, _ = g.Write([]byte("b"))
	_, _ = g.Write([]byte("c"))
	assert.Equal(t, "a", buf.String())

	require.NoError(t, g.Release())
	assert.Equal(t, "abc", buf.String())

	_, _ = g.Write([]byte("d"))
	assert.Equal(t, "abcd", buf.String())
	require.NoError(t, g.Release())
}

func TestGate_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	g := NewGate(&buf)
	g.Hold()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = g.Write([]byte("x"))
		}()
	}
	wg.Wait()

	require.NoError(t, g.Release())
	assert.Len(t, buf.String(), 50)
}
