package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/colonyops/powerbar/internal/core/activation"
	"github.com/colonyops/powerbar/internal/core/styles"
	"github.com/colonyops/powerbar/internal/core/tracing"
	"github.com/colonyops/powerbar/internal/core/validate"
	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if err := validate.IntRange(MinResultsPerCategory, MaxResultsPerCategory)(c.ResultsPerCategory); err != nil {
		errs = errs.Append("results_per_category", err)
	}
	if c.Search.Debounce <= 0 {
		errs = errs.Append("search.debounce", fmt.Errorf("must be positive, got %s", c.Search.Debounce))
	}
	if c.Spotify.Timeout < 0 {
		errs = errs.Append("spotify.timeout", fmt.Errorf("must not be negative"))
	}
	if c.Spotify.MaxRetries < 0 {
		errs = errs.Append("spotify.max_retries", fmt.Errorf("must not be negative"))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = errs.Append("tracing.sample_rate", fmt.Errorf("must be between 0 and 1"))
	}

	return criterio.ValidateStruct(
		errs.ToError(),
		criterio.Run("spotify.base_url", c.Spotify.BaseURL, validate.HTTPURL),
		criterio.Run("spotify.token_url", c.Spotify.TokenURL, validate.HTTPURL),
		criterio.Run("tui.theme", c.TUI.Theme, themeExists),
		criterio.Run("tracing.exporter", c.Tracing.Exporter, exporterKnown),
	)
}

// ValidateDeep performs Validate plus checks that touch the filesystem. The
// configPath argument specifies the config file location to validate (empty
// string skips the config file check).
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("navigation.open_command", c.Navigation.OpenCommand, validate.Executable),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if _, err := c.Chord(); err != nil {
		msg := "Please set a valid key combo for the power bar"
		if !errors.Is(err, activation.ErrEmptyChord) {
			msg = err.Error()
		}
		warnings = append(warnings, ValidationWarning{
			Category: "Activation",
			Item:     c.Activation.Modifier + "+" + c.Activation.Key,
			Message:  msg + "; activation is disabled",
		})
	}

	if !c.Spotify.HasCredentials() {
		warnings = append(warnings, ValidationWarning{
			Category: "Spotify",
			Message:  "no token or client credentials configured; only --demo mode will work",
		})
	}

	if c.Spotify.ClientID != "" && c.Spotify.ClientSecret == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Spotify",
			Item:     "client_secret",
			Message:  "client_id is set without client_secret",
		})
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func themeExists(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}

func exporterKnown(name string) error {
	if !slices.Contains(tracing.Exporters(), name) {
		return fmt.Errorf("unsupported exporter %q (available: %v)", name, tracing.Exporters())
	}
	return nil
}
