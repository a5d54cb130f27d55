// Package snapshot makes a series of writes to a single-file store all-or-nothing by copying
// the file aside before the writes and copying it back when they fail.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/vitstation/pkg/metrics"
)

var (
	ErrDatabaseNotFound = errors.New("database file not found")
	ErrRestoreFailed    = errors.New("restore from backup failed")
)

// RestoreError is returned when the store could not be put back after a failed run.
// It matches ErrRestoreFailed and unwraps to both the restore cause and the error that
// triggered the restore.
type RestoreError struct {
	Backup   string
	Cause    error
	Original error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("%v: %v (backup kept at %s; original error: %v)", ErrRestoreFailed, e.Cause, e.Backup, e.Original)
}

func (e *RestoreError) Is(target error) bool {
	return target == ErrRestoreFailed
}

func (e *RestoreError) Unwrap() []error {
	return []error{e.Original, e.Cause}
}

type State int

const (
	StateIdle State = iota
	StateSnapshotted
	StateCommitted
	StateRestored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSnapshotted:
		return "snapshotted"
	case StateCommitted:
		return "committed"
	case StateRestored:
		return "restored"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Options struct {
	// BackupDir receives the backup copy. Empty means os.TempDir().
	BackupDir string
	// KeepBackup leaves the backup on disk after a successful run.
	KeepBackup bool
	// RunID names the backup file. Empty means a fresh uuid.
	RunID  string
	Logger *logrus.Entry
}

// Snapshot is one backup of one store file.
type Snapshot struct {
	path       string
	backupPath string
	keepBackup bool
	state      State
	log        *logrus.Entry
}

func New(path string, opts Options) *Snapshot {
	dir := opts.BackupDir
	if dir == "" {
		dir = os.TempDir()
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Snapshot{
		path:       path,
		backupPath: filepath.Join(dir, fmt.Sprintf("%s.%s.bak", filepath.Base(path), runID)),
		keepBackup: opts.KeepBackup,
		log:        log.WithField("component", "snapshot"),
	}
}

func (s *Snapshot) State() State {
	return s.state
}

func (s *Snapshot) BackupPath() string {
	return s.backupPath
}

// Take copies the store file to the backup path.
func (s *Snapshot) Take() error {
	if s.state != StateIdle {
		return fmt.Errorf("snapshot: take in state %s", s.state)
	}
	if err := RequireFile(s.path); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.backupPath), 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	if err := copyFile(s.path, s.backupPath); err != nil {
		_ = os.Remove(s.backupPath)
		return fmt.Errorf("failed to back up %s: %w", s.path, err)
	}
	s.state = StateSnapshotted
	s.log.WithField("backup", s.backupPath).Debug("store backed up")
	return nil
}

// Commit discards the backup unless it should be kept.
func (s *Snapshot) Commit() error {
	if s.state != StateSnapshotted {
		return fmt.Errorf("snapshot: commit in state %s", s.state)
	}
	s.state = StateCommitted
	if s.keepBackup {
		s.log.WithField("backup", s.backupPath).Info("backup kept")
		return nil
	}
	if err := os.Remove(s.backupPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove backup: %w", err)
	}
	return nil
}

// Restore puts the backup back in place of the store file. The backup stays on disk when
// the restore fails.
func (s *Snapshot) Restore() error {
	if s.state != StateSnapshotted {
		return fmt.Errorf("snapshot: restore in state %s", s.state)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".restore-*")
	if err != nil {
		return fmt.Errorf("failed to create restore file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	if err := copyFile(s.backupPath, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to copy backup: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	s.state = StateRestored
	if !s.keepBackup {
		_ = os.Remove(s.backupPath)
	}
	return nil
}

// RequireFile reports ErrDatabaseNotFound when path does not name an existing regular file.
func RequireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrDatabaseNotFound, path)
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrDatabaseNotFound, path)
	}
	return nil
}

// Guard runs fn between a backup and either its removal or a restore. fn must release every
// handle on the store file before returning. A failed fn yields its own error once the store
// is back in its prior state, or a *RestoreError when it could not be put back.
func Guard(ctx context.Context, dbPath string, opts Options, fn func(ctx context.Context) error) error {
	s := New(dbPath, opts)
	if err := s.Take(); err != nil {
		return err
	}

	runErr := fn(ctx)
	if runErr == nil {
		if err := s.Commit(); err != nil {
			s.log.WithError(err).Warn("run committed but backup was not removed")
		}
		return nil
	}

	log := s.log.WithError(runErr)
	if err := s.Restore(); err != nil {
		metrics.ObserveRestore("failed")
		log.WithField("backup", s.backupPath).WithField("restore_error", err.Error()).Error("store restore failed")
		return &RestoreError{Backup: s.backupPath, Cause: err, Original: runErr}
	}
	metrics.ObserveRestore("ok")
	log.Warn("run failed, store restored from backup")
	return runErr
}
