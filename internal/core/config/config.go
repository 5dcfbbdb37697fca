// Package config handles configuration loading, validation and persistence
// for powerbar.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/colonyops/powerbar/internal/core/activation"
	"github.com/colonyops/powerbar/internal/core/styles"
	"github.com/colonyops/powerbar/internal/core/tracing"
	"gopkg.in/yaml.v3"
)

const (
	// MinResultsPerCategory and MaxResultsPerCategory bound the per-category
	// search limit.
	MinResultsPerCategory = 1
	MaxResultsPerCategory = 10

	DefaultResultsPerCategory = 3
	DefaultBaseURL            = "https://api.spotify.com"
	DefaultTokenURL           = "https://accounts.spotify.com/api/token"
	DefaultDebounce           = 300 * time.Millisecond
	DefaultCacheTTL           = 2 * time.Minute
	DefaultRequestTimeout     = 10 * time.Second
	DefaultMaxRetries         = 3
)

// Config holds the application configuration.
type Config struct {
	ResultsPerCategory int              `yaml:"results_per_category"`
	Activation         ActivationConfig `yaml:"activation"`
	AddToQueue         bool             `yaml:"add_to_queue"`
	Spotify            SpotifyConfig    `yaml:"spotify"`
	Search             SearchConfig     `yaml:"search"`
	TUI                TUIConfig        `yaml:"tui"`
	Navigation         NavigationConfig `yaml:"navigation"`
	Tracing            TracingConfig    `yaml:"tracing"`
	SeenVersion        string           `yaml:"seen_version,omitempty"`
}

// ActivationConfig is the chord that toggles the overlay. Both fields empty
// disables activation.
type ActivationConfig struct {
	Modifier string `yaml:"modifier"`
	Key      string `yaml:"key"`
}

// SpotifyConfig holds Web API credentials and endpoints. A static token wins
// over client credentials.
type SpotifyConfig struct {
	Token        string        `yaml:"token,omitempty"`
	ClientID     string        `yaml:"client_id,omitempty"`
	ClientSecret string        `yaml:"client_secret,omitempty"`
	BaseURL      string        `yaml:"base_url"`
	TokenURL     string        `yaml:"token_url"`
	Market       string        `yaml:"market,omitempty"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
}

// HasCredentials reports whether any form of authentication is configured.
func (s SpotifyConfig) HasCredentials() bool {
	return s.Token != "" || (s.ClientID != "" && s.ClientSecret != "")
}

// SearchConfig tunes the search dispatcher.
type SearchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// TUIConfig holds presentation settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// NavigationConfig controls what happens when a catalog page is visited.
type NavigationConfig struct {
	// OpenCommand, when set, is run with the page's open.spotify.com URL
	// as its final argument (e.g. "xdg-open").
	OpenCommand string `yaml:"open_command,omitempty"`
}

// TracingConfig configures request tracing.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Exporter   string  `yaml:"exporter"`
	FilePath   string  `yaml:"file_path,omitempty"`
	SampleRate float64 `yaml:"sample_rate"`
}

// Provider converts the section into tracing provider options.
func (t TracingConfig) Provider() tracing.Config {
	return tracing.Config{
		Enabled:    t.Enabled,
		Exporter:   t.Exporter,
		FilePath:   t.FilePath,
		SampleRate: t.SampleRate,
	}
}

// DefaultConfig returns a Config with sensible defaults for the current
// platform.
func DefaultConfig() Config {
	return defaultConfigFor(runtime.GOOS)
}

func defaultConfigFor(goos string) Config {
	chord := activation.DefaultChord(goos)
	return Config{
		ResultsPerCategory: DefaultResultsPerCategory,
		Activation: ActivationConfig{
			Modifier: string(chord.Modifier),
			Key:      chord.Key,
		},
		Spotify: SpotifyConfig{
			BaseURL:    DefaultBaseURL,
			TokenURL:   DefaultTokenURL,
			Timeout:    DefaultRequestTimeout,
			MaxRetries: DefaultMaxRetries,
		},
		Search: SearchConfig{
			Debounce: DefaultDebounce,
			CacheTTL: DefaultCacheTTL,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
		Tracing: TracingConfig{
			Exporter:   "file",
			SampleRate: 1.0,
		},
	}
}

// Load reads configuration from the given path. A missing file yields the
// defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
// results_per_category is left alone so out-of-range values are reported.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Spotify.BaseURL == "" {
		c.Spotify.BaseURL = defaults.Spotify.BaseURL
	}
	if c.Spotify.TokenURL == "" {
		c.Spotify.TokenURL = defaults.Spotify.TokenURL
	}
	if c.Spotify.Timeout == 0 {
		c.Spotify.Timeout = defaults.Spotify.Timeout
	}
	if c.Search.Debounce == 0 {
		c.Search.Debounce = defaults.Search.Debounce
	}
	if c.Search.CacheTTL == 0 {
		c.Search.CacheTTL = defaults.Search.CacheTTL
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = defaults.Tracing.Exporter
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = defaults.Tracing.SampleRate
	}
}

// Chord returns the configured activation chord. An empty or malformed
// chord is returned as an error so callers can disable activation.
func (c *Config) Chord() (activation.Chord, error) {
	if c.Activation.Modifier == "" && c.Activation.Key == "" {
		return activation.Chord{}, activation.ErrEmptyChord
	}
	return activation.ParseChord(c.Activation.Modifier + "+" + c.Activation.Key)
}

// SetChord stores ch as the activation chord.
func (c *Config) SetChord(ch activation.Chord) {
	c.Activation = ActivationConfig{Modifier: string(ch.Modifier), Key: ch.Key}
}

// Save writes cfg to path as YAML. The file is replaced atomically so a
// watcher never observes a partial write.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod config: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}
