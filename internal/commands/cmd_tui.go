package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/powerbar/internal/core/config"
	"github.com/colonyops/powerbar/internal/core/notify"
	"github.com/colonyops/powerbar/internal/tui"
	"github.com/colonyops/powerbar/pkg/profiler"
)

// ErrNoTerminal is returned by interactive commands when stdin or stdout is
// not a terminal.
var ErrNoTerminal = errors.New("this command needs an interactive terminal")

type TuiCmd struct {
	flags *Flags
	app   *App

	profilerPort int
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on 127.0.0.1 at the given port (e.g., 6060)",
			Sources:     cli.EnvVars("POWERBAR_PROFILER_PORT"),
			Destination: &cmd.profilerPort,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	if !isTerminal() {
		return ErrNoTerminal
	}

	if cmd.profilerPort > 0 {
		stop, err := startProfiler(ctx, cmd.profilerPort)
		if err != nil {
			return err
		}
		defer stop()
	}

	reload, stopWatch := cmd.watchConfig()
	defer stopWatch()

	m := tui.New(cmd.app.Config, tui.Options{
		ConfigPath: cmd.flags.ConfigPath,
		Searcher:   cmd.app.Searcher,
		Player:     cmd.app.Player,
		Store:      notify.NewMemoryStore(notify.DefaultHistorySize),
		Reload:     reload,
		Build:      cmd.app.Build,
		Warnings:   cmd.app.Warnings,
		GOOS:       runtime.GOOS,
		Demo:       cmd.app.Demo,
	})

	// Log lines on stdout would tear the alt screen.
	cmd.flags.Log.Hold()
	defer cmd.flags.Log.Release()

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// watchConfig starts the config file watcher. Live reload is best effort:
// failures are logged and the TUI runs without it.
func (cmd *TuiCmd) watchConfig() (<-chan struct{}, func()) {
	path := cmd.flags.ConfigPath
	if path == "" {
		return nil, func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("config reload disabled")
		return nil, func() {}
	}

	w, err := config.NewWatcher(path, config.DefaultWatchDebounce)
	if err != nil {
		log.Warn().Err(err).Msg("config reload disabled")
		return nil, func() {}
	}
	ch, err := w.Start()
	if err != nil {
		_ = w.Stop()
		log.Warn().Err(err).Msg("config reload disabled")
		return nil, func() {}
	}

	return ch, func() {
		if err := w.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop config watcher")
		}
	}
}

func startProfiler(ctx context.Context, port int) (func(), error) {
	srv := profiler.New(port)
	if err := srv.Start(ctx); err != nil {
		return nil, fmt.Errorf("start profiler: %w", err)
	}
	log.Info().
		Str("url", fmt.Sprintf("http://%s/debug/pprof/", srv.Addr())).
		Msg("profiler endpoint available")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown profiler server")
		}
	}, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
