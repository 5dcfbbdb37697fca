package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/colonyops/powerbar/internal/core/config"
	"github.com/colonyops/powerbar/internal/core/search"
	"github.com/colonyops/powerbar/internal/core/tracing"
	"github.com/colonyops/powerbar/internal/spotify"
	"github.com/colonyops/powerbar/internal/tui"
	"github.com/colonyops/powerbar/internal/tui/overlay"
)

// MsgDemoFallback is shown when no credentials are configured.
const MsgDemoFallback = "No Spotify credentials configured; showing the demo catalog"

// App is the wiring shared by the commands, built once in the Before hook.
type App struct {
	Config   *config.Config
	Searcher search.Searcher
	Player   overlay.Player
	Tracing  *tracing.Provider
	Build    tui.BuildInfo

	// Demo reports whether the offline catalog is in use.
	Demo bool
	// Warnings are shown to the user at startup.
	Warnings []string
}

// NewApp loads the config and connects the catalog backend.
func NewApp(ctx context.Context, flags *Flags, build tui.BuildInfo) (*App, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyCredentialFlags(cfg, flags)

	tcfg := cfg.Tracing.Provider()
	if tcfg.Enabled && tcfg.Exporter == tracing.ExporterFile && tcfg.FilePath == "" {
		tcfg.FilePath = filepath.Join(filepath.Dir(DefaultLogFile()), "traces.jsonl")
	}
	tp, err := tracing.NewProvider(tcfg)
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}

	app := &App{Config: cfg, Tracing: tp, Build: build}

	demo := flags.Demo || !cfg.Spotify.HasCredentials()
	for _, w := range cfg.Warnings() {
		if demo && w.Category == "Spotify" {
			continue
		}
		app.Warnings = append(app.Warnings, w.Category+": "+w.Message)
	}

	if demo {
		if !flags.Demo {
			app.Warnings = append(app.Warnings, MsgDemoFallback)
		}
		d := spotify.NewDemo()
		app.Demo = true
		app.Player = d
		app.Searcher = d
		log.Info().Bool("explicit", flags.Demo).Msg("using demo catalog")
		return app, nil
	}

	client, err := newClient(ctx, cfg, tp)
	if err != nil {
		return nil, errors.Join(err, tp.Shutdown(ctx))
	}
	app.Player = client
	app.Searcher = search.NewCached(client, cfg.Search.CacheTTL)
	return app, nil
}

// Close flushes pending spans.
func (a *App) Close(ctx context.Context) error {
	if a.Tracing == nil {
		return nil
	}
	return a.Tracing.Shutdown(ctx)
}

func applyCredentialFlags(cfg *config.Config, flags *Flags) {
	if flags.Token != "" {
		cfg.Spotify.Token = flags.Token
	}
	if flags.ClientID != "" {
		cfg.Spotify.ClientID = flags.ClientID
	}
	if flags.ClientSecret != "" {
		cfg.Spotify.ClientSecret = flags.ClientSecret
	}
}

func newClient(ctx context.Context, cfg *config.Config, tp *tracing.Provider) (*spotify.Client, error) {
	ts, err := spotify.TokenSource(ctx, spotify.Credentials{
		Token:        cfg.Spotify.Token,
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		TokenURL:     cfg.Spotify.TokenURL,
	})
	if err != nil {
		return nil, err
	}

	client, err := spotify.New(spotify.Options{
		BaseURL:     cfg.Spotify.BaseURL,
		Market:      cfg.Spotify.Market,
		Timeout:     cfg.Spotify.Timeout,
		MaxRetries:  cfg.Spotify.MaxRetries,
		TokenSource: ts,
		Tracer:      tp.Tracer(),
	})
	if err != nil {
		return nil, fmt.Errorf("create spotify client: %w", err)
	}
	return client, nil
}
