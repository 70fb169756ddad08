package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// FileSlot stores the document in a single JSON file. Writes go through a
// temp file and rename; a lockfile keeps two greenr processes from
// interleaving a write.
type FileSlot struct {
	path string
}

// NewFileSlot returns a slot backed by path.
func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

// Location returns the file path.
func (s *FileSlot) Location() string { return s.path }

// Close is a no-op.
func (s *FileSlot) Close() error { return nil }

func (s *FileSlot) lockFilePath() string {
	return s.path + ".lock"
}

// acquireFileLock acquires a cross-process advisory lockfile and returns the
// release function.
func (s *FileSlot) acquireFileLock() (func(), error) {
	lockPath := s.lockFilePath()

	if err := os.MkdirAll(filepath.Dir(lockPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	const maxRetries = 10
	const retryDelay = 100 * time.Millisecond
	const staleLockAge = 30 * time.Second

	for range maxRetries {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			_, _ = fmt.Fprintf(f, "%d", os.Getpid())
			_ = f.Close()
			return func() { _ = os.Remove(lockPath) }, nil
		}

		if removeStaleLock(lockPath, staleLockAge) {
			continue
		}
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("could not acquire lock on %s after retries", lockPath)
}

// removeStaleLock removes a lock older than staleLockAge whose owner is gone.
// Returns true when the caller should retry immediately.
func removeStaleLock(lockPath string, staleLockAge time.Duration) bool {
	info, statErr := os.Stat(lockPath)
	if statErr != nil || time.Since(info.ModTime()) <= staleLockAge {
		return false
	}
	if lockHolderAlive(lockPath) {
		return false
	}
	_ = os.Remove(lockPath)
	return true
}

func lockHolderAlive(lockPath string) bool {
	pidData, readErr := os.ReadFile(lockPath)
	if readErr != nil || len(pidData) == 0 {
		return false
	}
	var pid int
	if _, scanErr := fmt.Sscanf(string(pidData), "%d", &pid); scanErr != nil || pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 checks for existence without delivering anything.
	return proc.Signal(syscall.Signal(0)) == nil
}

// Read returns the file contents, or ErrEmpty when the file does not exist.
func (s *FileSlot) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return data, nil
}

// Write replaces the file atomically.
func (s *FileSlot) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock, err := s.acquireFileLock()
	if err != nil {
		return fmt.Errorf("acquiring file lock: %w", err)
	}
	defer unlock()

	if mkdirErr := os.MkdirAll(filepath.Dir(s.path), 0o750); mkdirErr != nil {
		return fmt.Errorf("creating session directory: %w", mkdirErr)
	}

	tmpPath := s.path + ".tmp"
	if writeErr := os.WriteFile(tmpPath, data, 0o600); writeErr != nil {
		return fmt.Errorf("writing session temp file: %w", writeErr)
	}
	if renameErr := os.Rename(tmpPath, s.path); renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming session temp file: %w", renameErr)
	}
	return nil
}

// Remove deletes the file.
func (s *FileSlot) Remove(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unlock, err := s.acquireFileLock()
	if err != nil {
		return fmt.Errorf("acquiring file lock: %w", err)
	}
	defer unlock()

	if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) {
		return fmt.Errorf("removing session file: %w", rmErr)
	}
	return nil
}
