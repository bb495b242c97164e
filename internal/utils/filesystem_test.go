package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, DirectoryExists(dir))
	assert.False(t, DirectoryExists(filepath.Join(dir, "missing")))

	file := filepath.Join(dir, "a-file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	assert.False(t, DirectoryExists(file))
}

func TestEnsureParentDir_CreatesMissingDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "data.db")

	require.NoError(t, EnsureParentDir(path))
	assert.True(t, DirectoryExists(filepath.Dir(path)))
}

func TestEnsureParentDir_ExistingDirectoryNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	assert.NoError(t, EnsureParentDir(path))
}

func TestEnsureParentDir_BareFilename(t *testing.T) {
	assert.NoError(t, EnsureParentDir("data.db"))
}

func TestFindProjectRoot_LocatesGoMod(t *testing.T) {
	root, err := FindProjectRoot()

	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "go.mod"))
	assert.NoError(t, err)
}
