// Package dirs resolves the per-user directories tubegrab writes to.
package dirs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "tubegrab"

// AppName returns the canonical application name for directory paths.
func AppName() string {
	return appName
}

// ConfigDir returns the app's configuration directory.
// - Linux: $XDG_CONFIG_HOME/tubegrab or ~/.config/tubegrab
// - macOS: ~/Library/Application Support/tubegrab
// - Windows: %AppData%/tubegrab (fallback to os.UserConfigDir)
func ConfigDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", AppName()), nil
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName()), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppName()), nil
	default:
		cfg, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(cfg, AppName()), nil
	}
}

// StateDir returns the app's state directory, used for the TUI log file.
// - Linux: $XDG_STATE_HOME/tubegrab or ~/.local/state/tubegrab
// - macOS: ~/Library/Application Support/tubegrab/state
// - Windows: %LocalAppData%/tubegrab/state (fallback to ConfigDir/state)
func StateDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", AppName(), "state"), nil
	case "linux":
		if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName()), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "state", AppName()), nil
	default:
		if la := os.Getenv("LOCALAPPDATA"); la != "" {
			return filepath.Join(la, AppName(), "state"), nil
		}
		cfg, err := ConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(cfg, "state"), nil
	}
}

// DefaultDownloadDir returns where saved artifacts land when no --out-dir is
// given: ~/Downloads/tubegrab when a home directory exists, else the working
// directory.
func DefaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads", AppName())
}

// Ensure creates the directory if it doesn't exist.
func Ensure(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}

// EnsureAll ensures the config and state dirs exist.
func EnsureAll() error {
	if p, err := ConfigDir(); err == nil {
		if err := Ensure(p); err != nil {
			return err
		}
	}
	if p, err := StateDir(); err == nil {
		if err := Ensure(p); err != nil {
			return err
		}
	}
	return nil
}
