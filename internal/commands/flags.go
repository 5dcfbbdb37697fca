package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/colonyops/powerbar/pkg/logutils"
)

// Flags holds the global flag values shared by every command.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	Demo       bool

	// Spotify credential overrides, usually from the environment.
	Token        string
	ClientID     string
	ClientSecret string

	// Log is set up in the Before hook.
	Log *logutils.Output
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "powerbar", "config.yaml")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/powerbar/powerbar.log
// On Linux: $XDG_STATE_HOME/powerbar/powerbar.log (defaults to ~/.local/state/powerbar/powerbar.log)
func DefaultLogFile() string {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, "powerbar", "powerbar.log")
	}

	home, _ := os.UserHomeDir()
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "powerbar", "powerbar.log")
	}
	return filepath.Join(home, ".local", "state", "powerbar", "powerbar.log")
}
