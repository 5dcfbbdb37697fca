package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/powerbar/internal/commands"
	"github.com/colonyops/powerbar/internal/core/logging"
	"github.com/colonyops/powerbar/internal/core/styles"
	"github.com/colonyops/powerbar/internal/printer"
	"github.com/colonyops/powerbar/internal/tui"
	"github.com/colonyops/powerbar/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() reads
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() tui.BuildInfo {
	b := tui.BuildInfo{Version: version, Commit: commit, Date: date}

	if b.Version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				b.Version = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					b.Commit = s.Value
				case "vcs.time":
					b.Date = s.Value
				}
			}
		}
	}

	if len(b.Commit) > 7 {
		b.Commit = b.Commit[:7]
	}

	return b
}

// needsApp reports whether the invoked command uses the catalog backend.
// config validate must run against files that fail to load.
func needsApp(c *cli.Command) bool {
	return c.Args().First() != "config"
}

func main() {
	ctx := context.Background()

	var (
		info   = build()
		flags  = &commands.Flags{}
		appCtx = &commands.App{}
	)

	app := &cli.Command{
		Name:      "powerbar",
		Usage:     "Quick-search the Spotify catalog from your terminal",
		UsageText: "powerbar [global options] command [command options]",
		Description: `Powerbar is a keyboard-driven search overlay for the Spotify catalog.

Run 'powerbar' with no arguments to open the interactive shell, then press the
activation key combo (Alt+Space by default) to search. Results are grouped into
tracks, artists, albums and playlists.

Run 'powerbar search <query>' for a one-shot search from scripts.`,
		Version: fmt.Sprintf("%s (%s) %s", info.Version, info.Commit, info.Date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("POWERBAR_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file, or - for stdout",
				Sources:     cli.EnvVars("POWERBAR_LOG_FILE"),
				Value:       commands.DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("POWERBAR_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.BoolFlag{
				Name:        "demo",
				Usage:       "search the built-in offline catalog instead of Spotify",
				Sources:     cli.EnvVars("POWERBAR_DEMO"),
				Destination: &flags.Demo,
			},
			&cli.StringFlag{
				Name:        "spotify-token",
				Usage:       "static Spotify access token",
				Sources:     cli.EnvVars("SPOTIFY_TOKEN"),
				Destination: &flags.Token,
			},
			&cli.StringFlag{
				Name:        "client-id",
				Usage:       "Spotify application client id",
				Sources:     cli.EnvVars("SPOTIFY_CLIENT_ID"),
				Destination: &flags.ClientID,
			},
			&cli.StringFlag{
				Name:        "client-secret",
				Usage:       "Spotify application client secret",
				Sources:     cli.EnvVars("SPOTIFY_CLIENT_SECRET"),
				Destination: &flags.ClientSecret,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			out, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			flags.Log = out
			log.Logger = out.Logger.Hook(logging.ContextHook{})

			ctx = printer.NewContext(ctx, printer.New(c.Root().Writer))

			if !needsApp(c) {
				return ctx, nil
			}

			a, err := commands.NewApp(ctx, flags, info)
			if err != nil {
				return ctx, err
			}

			// Validation ensures the name is known.
			palette, _ := styles.GetPalette(a.Config.TUI.Theme)
			styles.SetTheme(palette)

			// Commands already hold a pointer to appCtx.
			*appCtx = *a
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if err := appCtx.Close(ctx); err != nil {
				log.Error().Err(err).Msg("failed to flush traces")
			}
			if flags.Log != nil {
				flags.Log.Close()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, appCtx)

	app = commands.NewSearchCmd(flags, appCtx).Register(app)
	app = commands.NewSettingsCmd(flags, appCtx).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'powerbar --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
