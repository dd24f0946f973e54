// Package paths resolves the configuration and data directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
)

// appName names the per-user configuration directory.
const appName = "habitlog"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// else is configured.
const DefaultDataDirName = ".habitlog"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "HABITLOG_CONFIG_DIR"
	EnvDataDir   = "HABITLOG_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/habitlog (fallback ~/.config/habitlog)
// macOS:   ~/Library/Application Support/habitlog
// Windows: %APPDATA%/habitlog
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > HABITLOG_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return Expand(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return Expand(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > HABITLOG_DATA_DIR env > $(CWD)/.habitlog.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return Expand(flag)
	}
	if configYAMLValue != "" {
		return Expand(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return Expand(env)
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// Expand resolves a leading ~ to the user's home directory and returns the
// absolute form of p.
func Expand(p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}
