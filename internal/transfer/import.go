package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rshade/greenr/internal/logging"
	"github.com/rshade/greenr/internal/session"
)

// ErrInvalidDocument reports an import document that failed validation.
// Nothing from a rejected document is imported.
var ErrInvalidDocument = errors.New("invalid import document")

// MergeReport summarizes a merge.
type MergeReport struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// Parse reads an export document and returns its snapshots in file order.
// Every entry must carry an id, a createdAt timestamp and a
// response.breakdown object; a single bad entry rejects the whole document.
func Parse(r io.Reader) ([]session.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading import document: %w", err)
	}
	return parse(data)
}

// LoadFile reads and parses an export document from path.
func LoadFile(ctx context.Context, path string) ([]session.Snapshot, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "transfer").
		Str("operation", "load_file").
		Str("path", path).
		Msg("loading import document")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}

	snaps, err := parse(data)
	if err != nil {
		log.Warn().
			Str("component", "transfer").
			Err(err).
			Str("path", path).
			Msg("import document rejected")
		return nil, err
	}

	log.Debug().
		Str("component", "transfer").
		Int("snapshot_count", len(snaps)).
		Msg("import document parsed")
	return snaps, nil
}

func parse(data []byte) ([]session.Snapshot, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil || root == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidDocument)
	}

	raw, ok := root["snapshots"]
	if !ok {
		return nil, fmt.Errorf("%w: missing snapshots array", ErrInvalidDocument)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil || entries == nil {
		return nil, fmt.Errorf("%w: snapshots is not an array", ErrInvalidDocument)
	}

	snaps := make([]session.Snapshot, 0, len(entries))
	for i, entry := range entries {
		snap, err := parseEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: snapshot %d: %w", ErrInvalidDocument, i, err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

var (
	errNotObject    = errors.New("not an object")
	errMissingID    = errors.New("missing id")
	errMissingTime  = errors.New("missing createdAt")
	errNoBreakdown  = errors.New("missing response.breakdown")
	errBadBreakdown = errors.New("response.breakdown is not an object")
)

func parseEntry(entry json.RawMessage) (session.Snapshot, error) {
	var fields struct {
		ID        *string         `json:"id"`
		CreatedAt *string         `json:"createdAt"`
		Response  json.RawMessage `json:"response"`
	}
	if !isObject(entry) {
		return session.Snapshot{}, errNotObject
	}
	if err := json.Unmarshal(entry, &fields); err != nil {
		return session.Snapshot{}, err
	}
	if fields.ID == nil || *fields.ID == "" {
		return session.Snapshot{}, errMissingID
	}
	if fields.CreatedAt == nil || *fields.CreatedAt == "" {
		return session.Snapshot{}, errMissingTime
	}

	var resp map[string]json.RawMessage
	if !isObject(fields.Response) {
		return session.Snapshot{}, errNoBreakdown
	}
	if err := json.Unmarshal(fields.Response, &resp); err != nil {
		return session.Snapshot{}, err
	}
	breakdown, ok := resp["breakdown"]
	if !ok {
		return session.Snapshot{}, errNoBreakdown
	}
	if !isObject(breakdown) {
		return session.Snapshot{}, errBadBreakdown
	}

	var snap session.Snapshot
	if err := json.Unmarshal(entry, &snap); err != nil {
		return session.Snapshot{}, err
	}
	return snap, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// Merge appends snapshots whose ids are not already present, in input order.
// Ids already in state, or repeated within snaps, are skipped. Pointers are
// not touched. Merging the same batch twice adds nothing the second time.
func Merge(state session.State, snaps []session.Snapshot) (session.State, MergeReport) {
	seen := make(map[string]struct{}, state.Len()+len(snaps))
	for _, s := range state.Snapshots {
		seen[s.ID] = struct{}{}
	}

	out := state
	out.Snapshots = make([]session.Snapshot, len(state.Snapshots), len(state.Snapshots)+len(snaps))
	copy(out.Snapshots, state.Snapshots)

	var report MergeReport
	for _, s := range snaps {
		if _, dup := seen[s.ID]; dup {
			report.Skipped++
			continue
		}
		seen[s.ID] = struct{}{}
		out.Snapshots = append(out.Snapshots, s)
		report.Added++
	}
	return out, report
}
