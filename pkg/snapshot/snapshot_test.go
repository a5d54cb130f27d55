package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStore(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "store.sqlite3")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func entries(t *testing.T, dir string) []string {
	t.Helper()

	list, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, e := range list {
		names = append(names, e.Name())
	}
	return names
}

func TestGuard_MissingDatabase(t *testing.T) {
	backupDir := t.TempDir()
	called := false

	err := Guard(context.Background(), filepath.Join(t.TempDir(), "absent.db"), Options{BackupDir: backupDir}, func(context.Context) error {
		called = true
		return nil
	})

	require.ErrorIs(t, err, ErrDatabaseNotFound)
	assert.False(t, called)
	assert.Empty(t, entries(t, backupDir))
}

func TestGuard_SuccessRemovesBackup(t *testing.T) {
	path := writeStore(t, "before")
	backupDir := t.TempDir()

	err := Guard(context.Background(), path, Options{BackupDir: backupDir}, func(context.Context) error {
		return os.WriteFile(path, []byte("after"), 0o640)
	})

	require.NoError(t, err)
	assert.Equal(t, "after", readFile(t, path))
	assert.Empty(t, entries(t, backupDir))
}

func TestGuard_KeepBackup(t *testing.T) {
	path := writeStore(t, "before")
	backupDir := t.TempDir()

	err := Guard(context.Background(), path, Options{BackupDir: backupDir, KeepBackup: true, RunID: "run-1"}, func(context.Context) error {
		return os.WriteFile(path, []byte("after"), 0o640)
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"store.sqlite3.run-1.bak"}, entries(t, backupDir))
	assert.Equal(t, "before", readFile(t, filepath.Join(backupDir, "store.sqlite3.run-1.bak")))
}

func TestGuard_FailureRestoresByteIdentical(t *testing.T) {
	original := "SQLite format 3\x00\x01\x02 payload"
	path := writeStore(t, original)
	backupDir := t.TempDir()
	boom := errors.New("insert goals failed")

	err := Guard(context.Background(), path, Options{BackupDir: backupDir}, func(context.Context) error {
		require.NoError(t, os.WriteFile(path, []byte("half written"), 0o640))
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrRestoreFailed)
	assert.Equal(t, original, readFile(t, path))
	assert.Empty(t, entries(t, backupDir))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestGuard_RestoreFailureIsEscalated(t *testing.T) {
	path := writeStore(t, "before")
	backupDir := t.TempDir()
	boom := errors.New("insert proposals failed")

	err := Guard(context.Background(), path, Options{BackupDir: backupDir, RunID: "run-2"}, func(context.Context) error {
		require.NoError(t, os.Remove(filepath.Join(backupDir, "store.sqlite3.run-2.bak")))
		return boom
	})

	require.ErrorIs(t, err, ErrRestoreFailed)
	require.ErrorIs(t, err, boom)

	var restoreErr *RestoreError
	require.ErrorAs(t, err, &restoreErr)
	assert.Equal(t, filepath.Join(backupDir, "store.sqlite3.run-2.bak"), restoreErr.Backup)
	assert.Contains(t, err.Error(), "insert proposals failed")
}

func TestSnapshot_StateTransitions(t *testing.T) {
	path := writeStore(t, "data")
	s := New(path, Options{BackupDir: t.TempDir()})

	assert.Equal(t, StateIdle, s.State())
	require.Error(t, s.Commit())
	require.Error(t, s.Restore())

	require.NoError(t, s.Take())
	assert.Equal(t, StateSnapshotted, s.State())
	assert.FileExists(t, s.BackupPath())
	require.Error(t, s.Take())

	require.NoError(t, s.Restore())
	assert.Equal(t, StateRestored, s.State())
	assert.NoFileExists(t, s.BackupPath())
	require.Error(t, s.Commit())
}

func TestSnapshot_DefaultsToTempDirAndRandomRunID(t *testing.T) {
	a := New("/data/store.db", Options{})
	b := New("/data/store.db", Options{})

	assert.Equal(t, os.TempDir(), filepath.Dir(a.BackupPath()))
	assert.NotEqual(t, a.BackupPath(), b.BackupPath())
	assert.True(t, strings.HasPrefix(filepath.Base(a.BackupPath()), "store.db."))
}

func TestRequireFile(t *testing.T) {
	require.NoError(t, RequireFile(writeStore(t, "x")))
	require.ErrorIs(t, RequireFile(filepath.Join(t.TempDir(), "nope")), ErrDatabaseNotFound)
	require.ErrorIs(t, RequireFile(t.TempDir()), ErrDatabaseNotFound)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "committed", StateCommitted.String())
	assert.Equal(t, "state(9)", State(9).String())
}
