package greenops

// constError is an immutable error type for sentinel errors.
// It implements the error interface and provides compile-time safety.
type constError string

func (e constError) Error() string { return string(e) }

// Error types for comparisons.
// These are sentinel errors that can be compared with errors.Is().
var (
	// ErrMissingSnapshot indicates a baseline or scenario id that does not
	// resolve to a saved snapshot.
	ErrMissingSnapshot = constError("snapshot not found")

	// ErrNoComparisonPair indicates no baseline and scenario could be chosen:
	// the session holds fewer than two snapshots and no explicit pair was given.
	ErrNoComparisonPair = constError("nothing to compare")
)
