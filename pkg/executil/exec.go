// Package executil runs external programs on behalf of the TUI.
package executil

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const maxOutputLen = 500

// ErrNoCommand is returned by Open when the command line is blank.
var ErrNoCommand = errors.New("no command configured")

// Executor runs external commands.
type Executor interface {
	// Run executes a command and returns its combined output.
	Run(ctx context.Context, cmd string, args ...string) ([]byte, error)
}

// RealExecutor calls actual programs.
type RealExecutor struct{}

// Run executes a command and returns its combined output. On failure the
// output is included in the error, capped at 500 bytes so a chatty program
// cannot flood a toast. The *exec.ExitError stays reachable via errors.As.
func (e *RealExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, cmd, args...).CombinedOutput()
	if err != nil {
		if msg := capOutput(out); msg != "" {
			return out, fmt.Errorf("exec %s: %s: %w", cmd, msg, err)
		}
		return out, fmt.Errorf("exec %s: %w", cmd, err)
	}
	return out, nil
}

// Open runs command with target appended as its final argument. command may
// carry its own arguments, e.g. "open -a Spotify".
func Open(ctx context.Context, e Executor, command, target string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ErrNoCommand
	}

	args := make([]string, 0, len(fields))
	args = append(args, fields[1:]...)
	args = append(args, target)

	if _, err := e.Run(ctx, fields[0], args...); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	return nil
}

func capOutput(out []byte) string {
	if len(out) > maxOutputLen {
		out = out[:maxOutputLen]
	}
	return strings.TrimSpace(string(out))
}
