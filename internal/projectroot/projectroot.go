// Package projectroot locates the repository root for CLI invocations made
// from anywhere inside the working tree.
package projectroot

import (
	"fmt"
	"os"
	"path/filepath"
)

// Find walks upward from start until it finds a directory containing a
// .git entry (a directory for normal checkouts, a file for worktrees and
// submodules) and returns that directory's absolute path.
func Find(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving start directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no git repository found at or above %s", start)
		}
		dir = parent
	}
}
