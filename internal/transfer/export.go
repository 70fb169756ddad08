// Package transfer moves snapshots in and out of the session as a portable
// JSON document.
package transfer

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rshade/greenr/internal/session"
)

// DocumentVersion is the export format version.
const DocumentVersion = 1

// Document is the export file shape.
type Document struct {
	Version    int                `json:"version"`
	ExportedAt time.Time          `json:"exportedAt"`
	Snapshots  []session.Snapshot `json:"snapshots"`
}

// Export captures every snapshot of state, newest first as stored.
func Export(state session.State, now time.Time) Document {
	snaps := make([]session.Snapshot, len(state.Snapshots))
	copy(snaps, state.Snapshots)
	return Document{
		Version:    DocumentVersion,
		ExportedAt: now.UTC(),
		Snapshots:  snaps,
	}
}

// Write encodes doc as indented JSON.
func Write(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("writing export document: %w", err)
	}
	return nil
}

// FileName returns the suggested export file name for a given day.
func FileName(now time.Time) string {
	return "greenr-history-" + now.UTC().Format("2006-01-02") + ".json"
}
