// Package datadir locates and provisions the directory that holds every
// tournament folder.
package datadir

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

const (
	DefaultAppName = "tournament-manager"
	StoreDirName   = "CurrentTournaments"
)

// DefaultAppDataDir returns the per-user application data directory of the
// host (%AppData% on Windows, ~/Library/Application Support on macOS,
// $XDG_CONFIG_HOME or ~/.config elsewhere).
func DefaultAppDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return os.TempDir()
	}
	return dir
}

// ResolveRoot derives the store root from an application data directory.
func ResolveRoot(appDataDir, appName string) string {
	if appName == "" {
		appName = DefaultAppName
	}
	return filepath.Join(appDataDir, appName, StoreDirName)
}

// EnsureRoot creates root and any missing parents. An existing directory,
// including one created concurrently by someone else, is not an error.
func EnsureRoot(root string) (string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", errors.Wrapf(err, "create store root %s", root)
	}
	return root, nil
}
