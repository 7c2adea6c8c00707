package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAtomic_ReplacesContentAndMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(target, []byte("scan:\n  concurrency: 2\n"), 0o644)) //nolint:gosec // G306: test fixture

	require.NoError(t, WriteAtomic(target, []byte("scan:\n  concurrency: 8\n"), 0o600))

	data, err := os.ReadFile(target) //nolint:gosec // G304: t.TempDir path
	require.NoError(t, err)
	assert.Equal(t, "scan:\n  concurrency: 8\n", string(data))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp file may survive a successful write")
}

func TestWriteAtomic_CreatesMissingFile(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "new.yaml")
	require.NoError(t, WriteAtomic(target, nil, 0o600))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestWriteAtomic_FailureKeepsOriginal(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(target, []byte("original"), 0o600))

	require.NoError(t, os.Chmod(dir, 0o500)) //nolint:gosec // G302: read-only dir forces the failure
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) }) //nolint:gosec // G302: restore for TempDir cleanup

	require.Error(t, WriteAtomic(target, []byte("replacement"), 0o600))

	data, err := os.ReadFile(target) //nolint:gosec // G304: t.TempDir path
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestWriteAtomic_EmptyPath(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, WriteAtomic("", []byte("data"), 0o600), ErrEmptyPath)
	require.ErrorIs(t, AppendFile("", []byte("data"), 0o600), ErrEmptyPath)
}
