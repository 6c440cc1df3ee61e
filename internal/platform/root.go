package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// StorageDir is the hidden directory holding a workspace's notes.
const StorageDir = ".codenotes"

// ConfigNames are the config files looked up in a workspace root, in order.
var ConfigNames = []string{"codenotes.yaml", "codenotes.yml", "codenotes.toml"}

// FindRoot recursively looks upwards for a workspace root indicator:
// a .codenotes directory, a codenotes config file, or a .git directory.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, StorageDir) || findConfigIn(dir) != "" || hasFile(dir, ".git") {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("workspace root not found from %s", abs)
}

// FindConfig returns the first config file found walking up from startDir,
// or an empty string when there is none.
func FindConfig(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	dir := abs
	for {
		if path := findConfigIn(dir); path != "" {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func findConfigIn(dir string) string {
	for _, name := range ConfigNames {
		if hasFile(dir, name) {
			return filepath.Join(dir, name)
		}
	}
	return ""
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
