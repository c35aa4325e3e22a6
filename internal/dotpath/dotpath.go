// Package dotpath provides the home-relative, ~-prefixed path
// representation used throughout the persisted config, override, and
// metadata files so they stay portable across users and machines.
package dotpath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/instantdots/instantdots/internal/doterr"
)

// Home returns the current user's home directory.
func Home() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return home, nil
}

// Expand turns a ~-prefixed path (and any $VAR references) into an
// absolute path. Paths not starting with ~ are returned with only env
// expansion applied.
func Expand(path string) (string, error) {
	if path == "~" {
		return Home()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := Home()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path), nil
}

// Contract replaces a leading home-directory prefix with ~ for storage.
func Contract(path string) string {
	home, err := Home()
	if err != nil {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(os.PathSeparator)) {
		return "~" + path[len(home):]
	}
	return path
}

// RequireUnderHome expands path and verifies it lies strictly under the
// home directory, satisfying the "every target path lies strictly under
// H" invariant. Returns the expanded absolute path.
func RequireUnderHome(path string) (string, error) {
	expanded, err := Expand(path)
	if err != nil {
		return "", err
	}
	home, err := Home()
	if err != nil {
		return "", err
	}
	cleanHome := filepath.Clean(home)
	cleanPath := filepath.Clean(expanded)
	if cleanPath == cleanHome {
		return "", fmt.Errorf("%w: %s", doterr.ErrPathOutsideHome, path)
	}
	if !strings.HasPrefix(cleanPath, cleanHome+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", doterr.ErrPathOutsideHome, path)
	}
	return cleanPath, nil
}
