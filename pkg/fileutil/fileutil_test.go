package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rohmanhakim/consents/pkg/fileutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFileExtension(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{name: "json config", path: "consents.json", expected: "json"},
		{name: "multiple dots", path: "consents.local.yaml", expected: "yaml"},
		{name: "no extension", path: "consents", expected: ""},
		{name: "dotfile", path: ".consents", expected: "consents"},
		{name: "with directories", path: "/etc/consents/config.toml", expected: "toml"},
		{name: "empty string", path: "", expected: ""},
		{name: "dot at end", path: "config.", expected: ""},
		{name: "directory", path: "/etc/consents/", expected: ""},
		{name: "uppercase extension", path: "CONFIG.YML", expected: "yml"},
		{name: "mixed case extension", path: "config.Json", expected: "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fileutil.GetFileExtension(tt.path))
		})
	}
}

func TestEnsureDir_MultiplePathComponents(t *testing.T) {
	tmpDir := t.TempDir()
	targetDir := filepath.Join(tmpDir, "parent", "child", "grandchild")

	err := fileutil.EnsureDir(tmpDir, "parent", "child", "grandchild")
	require.NoError(t, err)

	info, statErr := os.Stat(targetDir)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestEnsureDir_DirectoryAlreadyExists(t *testing.T) {
	tmpDir := t.TempDir()

	err := fileutil.EnsureDir(tmpDir)
	assert.Nil(t, err)
}

func TestEnsureDir_PathIsAFile(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := fileutil.EnsureDir(blocker, "subdir")
	require.Error(t, err)

	var fileErr *fileutil.FileError
	if assert.ErrorAs(t, err, &fileErr) {
		assert.False(t, fileErr.Retryable)
		assert.Equal(t, fileutil.ErrCausePathError, fileErr.Cause)
	}
}

func TestOpenAppend_CreatesParentsAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "browse.log")

	f, err := fileutil.OpenAppend(path)
	require.Nil(t, err)
	_, writeErr := f.WriteString("first\n")
	require.NoError(t, writeErr)
	require.NoError(t, f.Close())

	f, err = fileutil.OpenAppend(path)
	require.Nil(t, err)
	_, writeErr = f.WriteString("second\n")
	require.NoError(t, writeErr)
	require.NoError(t, f.Close())

	content, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "first\nsecond\n", string(content))
}

func TestOpenAppend_ParentIsAFile(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := fileutil.OpenAppend(filepath.Join(blocker, "browse.log"))

	require.NotNil(t, err)
	var fileErr *fileutil.FileError
	require.ErrorAs(t, err, &fileErr)
	assert.Equal(t, fileutil.ErrCausePathError, fileErr.Cause)
}
