// Package store provides the durable key-value slot that holds the persisted
// session document. Backends store opaque bytes; encoding belongs to the
// session package.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SlotKey names the single persisted session document.
const SlotKey = "greenr_session_v2"

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ErrEmpty is returned by Read when nothing has been stored yet.
var ErrEmpty = errors.New("session slot is empty")

// ErrUnknownBackend is returned by Open for unsupported backend names.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Slot is one durable document slot.
type Slot interface {
	// Read returns the stored document or ErrEmpty.
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the stored document.
	Write(ctx context.Context, data []byte) error
	// Remove deletes the stored document. Removing an empty slot is not an error.
	Remove(ctx context.Context) error
	// Close releases backend resources.
	Close() error
	// Location describes where the slot lives, for display.
	Location() string
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is the file (file backend) or database (sqlite backend) location.
	// Empty means a default under Home.
	Path string
	// Home is the greenr home directory, typically ~/.greenr.
	Home string
}

// Open returns the slot described by opts.
func Open(opts Options) (Slot, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" {
		backend = BackendFile
	}

	switch backend {
	case BackendFile:
		path, err := defaultPath(opts, "session.json")
		if err != nil {
			return nil, err
		}
		return NewFileSlot(path), nil
	case BackendSQLite:
		path, err := defaultPath(opts, "greenr.db")
		if err != nil {
			return nil, err
		}
		return OpenSQLiteSlot(path)
	case BackendMemory:
		return NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

func defaultPath(opts Options, name string) (string, error) {
	if opts.Path != "" {
		return opts.Path, nil
	}
	home := opts.Home
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("determining home directory: %w", err)
		}
		home = filepath.Join(userHome, ".greenr")
	}
	return filepath.Join(home, name), nil
}
