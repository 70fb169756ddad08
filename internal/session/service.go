package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rshade/greenr/internal/logging"
	"github.com/rshade/greenr/internal/session/store"
)

// ErrStorage wraps failures of the underlying slot during Save or Clear.
var ErrStorage = errors.New("session storage failed")

// Service loads and saves the session state through a store.Slot.
type Service struct {
	slot store.Slot
}

// NewService returns a Service over slot.
func NewService(slot store.Slot) *Service {
	return &Service{slot: slot}
}

// Location describes where the session is persisted.
func (s *Service) Location() string {
	return s.slot.Location()
}

// Load returns the persisted state. A missing, unreadable or corrupt document
// yields DefaultState; those conditions are logged, never returned.
func (s *Service) Load(ctx context.Context) State {
	log := logging.FromContext(ctx)

	data, err := s.slot.Read(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrEmpty) {
			log.Warn().
				Str("component", "session").
				Str("operation", "load").
				Err(err).
				Msg("session slot unreadable, starting fresh")
		}
		return DefaultState()
	}

	state, err := decodeState(data)
	if err != nil {
		log.Warn().
			Str("component", "session").
			Str("operation", "load").
			Str("location", s.slot.Location()).
			Err(err).
			Msg("session document corrupted, starting fresh")
		return DefaultState()
	}

	state, repaired := state.normalize()
	if repaired {
		log.Debug().
			Str("component", "session").
			Str("operation", "load").
			Msg("cleared pointers to missing snapshots")
	}

	log.Debug().
		Str("component", "session").
		Str("operation", "load").
		Int("snapshots", state.Len()).
		Msg("session loaded")
	return state
}

// Save overwrites the persisted state. On failure the error wraps ErrStorage
// and the caller keeps its in-memory value.
func (s *Service) Save(ctx context.Context, state State) error {
	state.Version = StateVersion
	if state.Snapshots == nil {
		state.Snapshots = []Snapshot{}
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: encoding state: %w", ErrStorage, err)
	}
	if err := s.slot.Write(ctx, data); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	logging.FromContext(ctx).Debug().
		Str("component", "session").
		Str("operation", "save").
		Int("snapshots", state.Len()).
		Msg("session saved")
	return nil
}

// Update runs a read-modify-write cycle: load, apply fn, save. When fn
// returns an error nothing is saved.
func (s *Service) Update(ctx context.Context, fn func(State) (State, error)) (State, error) {
	current := s.Load(ctx)
	next, err := fn(current)
	if err != nil {
		return current, err
	}
	if err := s.Save(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}

// Clear removes the persisted session.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.slot.Remove(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	logging.FromContext(ctx).Info().
		Str("component", "session").
		Str("operation", "clear").
		Msg("session cleared")
	return nil
}

func decodeState(data []byte) (State, error) {
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, err
	}
	if state.Version > StateVersion {
		return State{}, fmt.Errorf("unsupported session version %d (expected <= %d)",
			state.Version, StateVersion)
	}
	return state, nil
}
