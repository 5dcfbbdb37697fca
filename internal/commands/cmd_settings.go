package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/powerbar/internal/core/activation"
	"github.com/colonyops/powerbar/internal/core/config"
	"github.com/colonyops/powerbar/internal/printer"
)

type SettingsCmd struct {
	flags *Flags
	app   *App
}

// NewSettingsCmd creates a new settings command
func NewSettingsCmd(flags *Flags, app *App) *SettingsCmd {
	return &SettingsCmd{flags: flags, app: app}
}

// Register adds the settings command to the application
func (cmd *SettingsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "settings",
		Usage:     "Edit the power bar settings",
		UsageText: "powerbar settings",
		Description: `Opens a form for the results per category, the activation key combo and
the add-to-queue switch, then saves them to the config file.

A running powerbar picks the change up without a restart.`,
		Action: cmd.run,
	})

	return app
}

// settingsValues are the fields the form edits.
type settingsValues struct {
	Results    int
	Chord      string
	AddToQueue bool
}

func (cmd *SettingsCmd) run(ctx context.Context, _ *cli.Command) error {
	if !isTerminal() {
		return ErrNoTerminal
	}
	p := printer.Ctx(ctx)

	v := currentSettings(cmd.app.Config)
	if err := settingsForm(&v).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			p.Infof("Settings unchanged")
			return nil
		}
		return err
	}

	if err := applySettings(cmd.app.Config, v); err != nil {
		return err
	}
	if err := config.Save(cmd.flags.ConfigPath, cmd.app.Config); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	if v.Chord == "" {
		p.Warnf("Activation is disabled. Please set a valid key combo for the power bar.")
	}
	p.Successf("Saved %s", cmd.flags.ConfigPath)
	return nil
}

func currentSettings(cfg *config.Config) settingsValues {
	v := settingsValues{Results: cfg.ResultsPerCategory, AddToQueue: cfg.AddToQueue}
	if c, err := cfg.Chord(); err == nil {
		v.Chord = c.String()
	}
	return v
}

func settingsForm(v *settingsValues) *huh.Form {
	opts := make([]huh.Option[int], 0, config.MaxResultsPerCategory)
	for n := config.MinResultsPerCategory; n <= config.MaxResultsPerCategory; n++ {
		opts = append(opts, huh.NewOption(fmt.Sprint(n), n))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Results per category").
				Options(opts...).
				Value(&v.Results),
			huh.NewInput().
				Title("Activation key combo").
				Description("modifier+key, e.g. ctrl+space (empty disables)").
				Validate(validateChord).
				Value(&v.Chord),
			huh.NewConfirm().
				Title("Add to queue").
				Description("Play-modifier selections queue instead of playing").
				Value(&v.AddToQueue),
		),
	)
}

func validateChord(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := activation.ParseChord(s)
	return err
}

// applySettings copies v into cfg.
func applySettings(cfg *config.Config, v settingsValues) error {
	if v.Results < config.MinResultsPerCategory || v.Results > config.MaxResultsPerCategory {
		return fmt.Errorf("results per category must be between %d and %d",
			config.MinResultsPerCategory, config.MaxResultsPerCategory)
	}
	cfg.ResultsPerCategory = v.Results
	cfg.AddToQueue = v.AddToQueue

	chord := strings.TrimSpace(v.Chord)
	if chord == "" {
		cfg.SetChord(activation.Chord{})
		return nil
	}
	c, err := activation.ParseChord(chord)
	if err != nil {
		return fmt.Errorf("activation key combo: %w", err)
	}
	cfg.SetChord(c)
	return nil
}
