package store

import (
	"context"
	"sync"
)

// MemorySlot keeps the document in memory.
type MemorySlot struct {
	mu   sync.RWMutex
	data []byte
	// FailWrites makes Write return the given error, for exercising storage failures.
	FailWrites error
}

// NewMemorySlot returns an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// Location returns "memory".
func (s *MemorySlot) Location() string { return BackendMemory }

// Close is a no-op.
func (s *MemorySlot) Close() error { return nil }

// Read returns a copy of the stored bytes or ErrEmpty.
func (s *MemorySlot) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.data) == 0 {
		return nil, ErrEmpty
	}
	return append([]byte(nil), s.data...), nil
}

// Write stores a copy of data.
func (s *MemorySlot) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.data = append([]byte(nil), data...)
	return nil
}

// Remove clears the slot.
func (s *MemorySlot) Remove(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}
