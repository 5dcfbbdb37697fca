// Package logutils builds the process logger.
package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Stdout selects standard output as the log destination.
const Stdout = "-"

// Output is a configured logger together with its destination.
type Output struct {
	Logger zerolog.Logger

	gate   *Gate
	closer func()
}

// New returns a logger that writes JSON at level to file. The file is
// appended to so restarts keep earlier runs. Stdout ("-") or an empty file
// writes to standard output through a Gate, so an interactive command can
// hold log lines while it owns the terminal.
//
// The level parameter can be one of: debug, info, warn, error, fatal.
func New(level string, file string) (*Output, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	out := &Output{closer: func() {}}

	var w io.Writer
	if file == "" || file == Stdout {
		out.gate = NewGate(os.Stdout)
		w = out.gate
	} else {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, fmt.Errorf("create logs dir: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out.closer = func() { _ = f.Close() }
		w = f
	}

	out.Logger = zerolog.New(w).
		With().
		Timestamp().
		Logger().
		Level(lvl)

	return out, nil
}

// Hold buffers stdout log lines until Release. It is a no-op for files.
func (o *Output) Hold() {
	if o.gate != nil {
		o.gate.Hold()
	}
}

// Release writes held log lines and resumes passing them through.
func (o *Output) Release() {
	if o.gate != nil {
		_ = o.gate.Release()
	}
}

// Close releases held lines and closes the log file.
func (o *Output) Close() {
	o.Release()
	o.closer()
}
