// Package session holds the single persisted session record: the request
// draft, the last result, every saved snapshot and the baseline/scenario
// pointers used for comparisons.
//
// State transitions are pure. Each operation takes a State value and returns
// a new one without touching the slices of its receiver, so callers follow a
// load, transform, save cycle through Service.
package session

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rshade/greenr/internal/footprint"
)

// UntitledLabel is used when a snapshot is created or relabelled with a blank label.
const UntitledLabel = "Untitled"

// Snapshot is one saved calculation. Only Label, Note and Tags change after
// creation.
type Snapshot struct {
	ID        string                      `json:"id"`
	Label     string                      `json:"label"`
	CreatedAt time.Time                   `json:"createdAt"`
	Request   footprint.CalculationInput  `json:"request"`
	Response  footprint.CalculationResult `json:"response"`
	Note      string                      `json:"note,omitempty"`
	Tags      []string                    `json:"tags,omitempty"`
}

// Clock abstracts time retrieval so snapshot creation is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator produces snapshot identifiers.
type IDGenerator interface {
	New(at time.Time) string
}

// ULIDGenerator produces ULIDs: a millisecond timestamp followed by
// monotonic random entropy. Safe for concurrent use.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewULIDGenerator returns a generator backed by crypto/rand.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// New returns a fresh ULID string for the given instant.
func (g *ULIDGenerator) New(at time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), g.entropy).String()
}

// Repository allocates snapshots. It owns the clock and ID source; every
// other operation lives on State.
type Repository struct {
	clock Clock
	ids   IDGenerator
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the clock.
func WithClock(c Clock) Option {
	return func(r *Repository) { r.clock = c }
}

// WithIDGenerator overrides the ID source.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Repository) { r.ids = g }
}

// NewRepository returns a Repository using the wall clock and ULIDs.
func NewRepository(opts ...Option) *Repository {
	r := &Repository{clock: RealClock{}, ids: NewULIDGenerator()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create wraps a completed calculation into a new snapshot. It never fails.
func (r *Repository) Create(
	label string,
	input footprint.CalculationInput,
	result footprint.CalculationResult,
) Snapshot {
	now := r.clock.Now()
	return Snapshot{
		ID:        r.ids.New(now),
		Label:     normalizeLabel(label),
		CreatedAt: now,
		Request:   input,
		Response:  result,
	}
}

func normalizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return UntitledLabel
	}
	return label
}

func normalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
