package utils

import (
	"os"
	"path/filepath"
)

func DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureParentDir creates the parent directory of path when it does not
// exist yet. SQLite creates database files but not their directories.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." || DirectoryExists(dir) {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}
