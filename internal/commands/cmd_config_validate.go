package commands

import (
	"context"
	"errors"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/powerbar/internal/core/config"
	"github.com/colonyops/powerbar/internal/printer"
	"github.com/colonyops/powerbar/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "powerbar config validate [options]",
				Description: "Validates the configuration file, checking ranges, URLs, the theme, the open command and the activation key combo.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// validationError is one field problem.
type validationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// validationResult is the JSON output format for powerbar config validate.
type validationResult struct {
	Valid    bool                       `json:"valid"`
	Errors   []validationError          `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

// validateFile loads path and collects its errors and warnings. Unlike the
// Before hook it never fails on an invalid file.
func validateFile(path string) validationResult {
	cfg, err := config.Load(path)
	if err == nil {
		err = cfg.ValidateDeep(path)
	}

	res := validationResult{Valid: err == nil, Errors: fieldErrors(err)}
	if cfg != nil {
		res.Warnings = cfg.Warnings()
	}
	return res
}

func fieldErrors(err error) []validationError {
	if err == nil {
		return nil
	}
	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []validationError{{Message: err.Error()}}
	}
	out := make([]validationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, validationError{Field: fe.Field, Message: fe.Err.Error()})
	}
	return out
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	result := validateFile(cmd.flags.ConfigPath)

	if cmd.format == "json" {
		if err := iojson.Write(c.Root().Writer, c.Root().ErrWriter, result); err != nil {
			return err
		}
		if !result.Valid {
			return cli.Exit("", 1)
		}
		return nil
	}

	p := printer.Ctx(ctx)
	for _, w := range result.Warnings {
		p.Warnf("%s: %s", w.Category, w.Message)
		if w.Item != "" {
			p.Printf("  Item: %s", w.Item)
		}
	}
	for _, e := range result.Errors {
		if e.Field != "" {
			p.Errorf("%s: %s", e.Field, e.Message)
			continue
		}
		p.Errorf("%s", e.Message)
	}

	if result.Valid {
		p.Successf("Configuration is valid")
		return nil
	}
	p.Errorf("%d error(s) found", len(result.Errors))
	return cli.Exit("", 1)
}
