package transfer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/greenr/internal/session"
	"github.com/rshade/greenr/internal/testutil"
	"github.com/rshade/greenr/internal/transfer"
)

func sampleState(t *testing.T) session.State {
	t.Helper()
	now := testutil.FixedClock().Now()
	a := testutil.Snapshot("snap-a", now.Add(-2*time.Hour), testutil.Input(7000, 0), testutil.Kg{Vehicle: 3500})
	b := testutil.Snapshot("snap-b", now.Add(-time.Hour), testutil.Input(5000, 1), testutil.Kg{Vehicle: 2500, Flights: 300})
	b.Note = "switched to hybrid"
	b.Tags = []string{"car"}
	return session.DefaultState().Add(a).Add(b)
}

func TestExport_RoundTripsThroughParse(t *testing.T) {
	state := sampleState(t)
	now := testutil.FixedClock().Now()

	var buf bytes.Buffer
	require.NoError(t, transfer.Write(&buf, transfer.Export(state, now)))

	assert.Contains(t, buf.String(), "\n  \"version\": 1,")
	assert.Contains(t, buf.String(), `"exportedAt": "2024-01-15T10:30:00Z"`)

	snaps, err := transfer.Parse(&buf)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "snap-b", snaps[0].ID)
	assert.Equal(t, "switched to hybrid", snaps[0].Note)
	assert.Equal(t, []string{"car"}, snaps[0].Tags)
	assert.True(t, state.Snapshots[0].CreatedAt.Equal(snaps[0].CreatedAt))
	assert.InDelta(t, 2800.0, snaps[0].Response.Breakdown.TotalKg, 1e-9)
}

func TestExport_DoesNotAliasState(t *testing.T) {
	state := sampleState(t)
	doc := transfer.Export(state, time.Now())
	doc.Snapshots[0].Label = "changed"
	assert.NotEqual(t, "changed", state.Snapshots[0].Label)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "greenr-history-2024-01-15.json", transfer.FileName(testutil.FixedClock().Now()))
}

func TestParse_Rejects(t *testing.T) {
	valid := `{"id":"ok","createdAt":"2024-01-15T10:30:00Z","response":{"breakdown":{"total_kg":1}}}`

	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{name: "not json", doc: `nope`, wantMsg: "expected a JSON object"},
		{name: "array root", doc: `[]`, wantMsg: "expected a JSON object"},
		{name: "missing snapshots", doc: `{"version":1}`, wantMsg: "missing snapshots"},
		{name: "snapshots not array", doc: `{"snapshots":{}}`, wantMsg: "not an array"},
		{name: "entry not object", doc: `{"snapshots":[` + valid + `,3]}`, wantMsg: "snapshot 1"},
		{
			name:    "missing id",
			doc:     `{"snapshots":[{"createdAt":"2024-01-15T10:30:00Z","response":{"breakdown":{}}}]}`,
			wantMsg: "missing id",
		},
		{
			name:    "missing createdAt",
			doc:     `{"snapshots":[{"id":"x","response":{"breakdown":{}}}]}`,
			wantMsg: "missing createdAt",
		},
		{
			name:    "missing breakdown",
			doc:     `{"snapshots":[{"id":"x","createdAt":"2024-01-15T10:30:00Z","response":{}}]}`,
			wantMsg: "missing response.breakdown",
		},
		{
			name:    "breakdown not object",
			doc:     `{"snapshots":[{"id":"x","createdAt":"2024-01-15T10:30:00Z","response":{"breakdown":7}}]}`,
			wantMsg: "not an object",
		},
		{
			name:    "bad timestamp",
			doc:     `{"snapshots":[{"id":"x","createdAt":"yesterday","response":{"breakdown":{}}}]}`,
			wantMsg: "snapshot 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snaps, err := transfer.Parse(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, transfer.ErrInvalidDocument)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Nil(t, snaps)
		})
	}
}

func TestParse_EmptySnapshotsIsValid(t *testing.T) {
	snaps, err := transfer.Parse(strings.NewReader(`{"snapshots":[]}`))
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestMerge_AddsUnseenAndIsIdempotent(t *testing.T) {
	state := sampleState(t)
	now := testutil.FixedClock().Now()
	incoming := []session.Snapshot{
		testutil.Snapshot("snap-a", now, testutil.Input(0, 0), testutil.Kg{Diet: 1}),
		testutil.Snapshot("snap-c", now, testutil.Input(0, 0), testutil.Kg{Diet: 2}),
		testutil.Snapshot("snap-c", now, testutil.Input(0, 0), testutil.Kg{Diet: 3}),
		testutil.Snapshot("snap-d", now, testutil.Input(0, 0), testutil.Kg{Diet: 4}),
	}

	merged, report := transfer.Merge(state, incoming)

	assert.Equal(t, transfer.MergeReport{Added: 2, Skipped: 2}, report)
	require.Equal(t, 4, merged.Len())
	assert.Equal(t, "snap-c", merged.Snapshots[2].ID)
	assert.Equal(t, "snap-d", merged.Snapshots[3].ID)
	assert.InDelta(t, 2.0, merged.Snapshots[2].Response.Breakdown.DietKg, 1e-9)

	kept, _ := merged.Get("snap-a")
	assert.InDelta(t, 3500.0, kept.Response.Breakdown.VehicleKg, 1e-9)
	assert.Equal(t, 2, state.Len(), "input state must not change")

	again, report := transfer.Merge(merged, incoming)
	assert.Equal(t, transfer.MergeReport{Added: 0, Skipped: 4}, report)
	assert.Equal(t, merged.Snapshots, again.Snapshots)
}

func TestMerge_KeepsPointers(t *testing.T) {
	state := sampleState(t).SetBaseline("snap-a")
	merged, _ := transfer.Merge(state, []session.Snapshot{
		testutil.Snapshot("snap-z", time.Now(), testutil.Input(0, 0), testutil.Kg{}),
	})
	require.NotNil(t, merged.BaselineID)
	assert.Equal(t, "snap-a", *merged.BaselineID)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	data, err := json.Marshal(transfer.Export(sampleState(t), time.Now()))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	snaps, err := transfer.LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)

	_, err = transfer.LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, transfer.ErrInvalidDocument)
}
