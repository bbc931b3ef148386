package safewrite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOriginal(t *testing.T, dir string, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestBackupName(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC)
	assert.Equal(
		t,
		filepath.Join("data", "scan.20240309143005.dcm"),
		BackupName(filepath.Join("data", "scan.dcm"), now),
	)
	assert.Equal(
		t,
		filepath.Join("data", "noext.20240309143005"),
		BackupName(filepath.Join("data", "noext"), now),
	)
}

func TestPersist_DryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	original := []byte("original bytes")
	path := writeOriginal(t, dir, "scan.dcm", original)

	require.NoError(t, Persist(path, []byte("replaced"), DryRun))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPersist_BackupKeepsOriginalBytes(t *testing.T) {
	dir := t.TempDir()
	original := []byte("original bytes")
	replacement := []byte("replaced bytes")
	path := writeOriginal(t, dir, "scan.dcm", original)

	require.NoError(t, Persist(path, replacement, Backup))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, replacement, got)

	backups, err := filepath.Glob(filepath.Join(dir, "scan.*.dcm"))
	require.NoError(t, err)
	require.Len(t, backups, 1)

	saved, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Equal(t, original, saved)

	// no temp files left behind
	leftovers, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestPersist_InPlaceLeavesNoSibling(t *testing.T) {
	dir := t.TempDir()
	path := writeOriginal(t, dir, "scan.dcm", []byte("original"))

	require.NoError(t, Persist(path, []byte("replaced"), InPlace))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("replaced"), got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPersist_MissingOriginal(t *testing.T) {
	dir := t.TempDir()
	err := Persist(filepath.Join(dir, "absent.dcm"), []byte("x"), Backup)
	require.Error(t, err)
}

func TestPersist_PreservesPermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.dcm")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o600))

	require.NoError(t, Persist(path, []byte("replaced"), InPlace))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
