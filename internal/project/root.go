package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestNames are the project files Find looks for, in order of preference
// within one directory.
var ManifestNames = []string{"lowerjs.toml", "lowerjs.yaml", "lowerjs.yml"}

// Find walks up from startDir to the nearest directory holding a manifest.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range ManifestNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// FindRoot returns the directory of the nearest manifest.
func FindRoot(startDir string) (root string, ok bool, err error) {
	manifest, ok, err := Find(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(manifest), true, nil
}
