package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureParentDir creates the directory that will hold path, so that a file
// can be opened there. Relative paths resolve against the working directory.
func EnsureParentDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", path, err)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return abs, nil
}

// DefaultDataPath places name under the user's config directory
// (e.g. ~/.config/driftdesk/name). It falls back to the working directory
// when no config directory is known.
func DefaultDataPath(name string) string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return name
	}
	return filepath.Join(base, "driftdesk", name)
}
