package logutils

import (
	"bytes"
	"io"
	"sync"
)

// Gate passes writes through to w, except while held, when they are buffered
// until Release. Safe for concurrent use.
type Gate struct {
	mu   sync.Mutex
	w    io.Writer
	held bool
	buf  bytes.Buffer
}

// NewGate returns an open gate in front of w.
func NewGate(w io.Writer) *Gate {
	return &Gate{w: w}
}

// Write implements io.Writer.
func (g *Gate) Write(p []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held {
		return g.buf.Write(p)
	}
	return g.w.Write(p)
}

// Hold starts buffering writes.
func (g *Gate) Hold() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.held = true
}

// Release flushes buffered writes and passes later ones through.
func (g *Gate) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.held = false
	if g.buf.Len() == 0 {
		return nil
	}
	_, err := g.buf.WriteTo(g.w)
	return err
}
