package session_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/greenr/internal/session"
	"github.com/rshade/greenr/internal/session/store"
	"github.com/rshade/greenr/internal/testutil"
)

func TestService_LoadEmptyReturnsDefault(t *testing.T) {
	svc := session.NewService(store.NewMemorySlot())
	assert.Equal(t, session.DefaultState(), svc.Load(context.Background()))
}

func TestService_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := session.NewService(store.NewFileSlot(filepath.Join(t.TempDir(), "session.json")))

	state := seeded(t).
		SetBaseline("snap-001").
		SetScenario(testutil.Ptr("snap-003")).
		UpdateMetadata("snap-002", session.MetadataPatch{Note: testutil.Ptr("n"), Tags: []string{"t"}})
	require.NoError(t, svc.Save(ctx, state))

	loaded := svc.Load(ctx)
	assert.Equal(t, state.Len(), loaded.Len())
	require.NotNil(t, loaded.BaselineID)
	assert.Equal(t, "snap-001", *loaded.BaselineID)
	require.NotNil(t, loaded.ScenarioID)
	assert.Equal(t, "snap-003", *loaded.ScenarioID)

	snap, ok := loaded.Get("snap-002")
	require.True(t, ok)
	assert.Equal(t, "n", snap.Note)
	assert.Equal(t, []string{"t"}, snap.Tags)
	orig, _ := state.Get("snap-002")
	assert.True(t, orig.CreatedAt.Equal(snap.CreatedAt))
	assert.Equal(t, orig.Response, snap.Response)
}

func TestService_LoadRecoversFromCorruption(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "invalid json", doc: "{invalid json"},
		{name: "wrong shape", doc: `["not", "an", "object"]`},
		{name: "future version", doc: `{"version": 99, "snapshots": []}`},
		{name: "snapshots not a list", doc: `{"snapshots": 7}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := store.NewMemorySlot()
			require.NoError(t, slot.Write(context.Background(), []byte(tt.doc)))

			var buf bytes.Buffer
			ctx := zerolog.New(&buf).WithContext(context.Background())

			state := session.NewService(slot).Load(ctx)
			assert.Equal(t, session.DefaultState(), state)
			assert.Contains(t, buf.String(), "corrupted")
		})
	}
}

func TestService_LoadDefaultsMissingFields(t *testing.T) {
	slot := store.NewMemorySlot()
	doc := `{
		"requestDraft": {"household_size": 3},
		"snapshots": [{"id": "a", "label": "A", "createdAt": "2024-01-15T10:30:00.000Z",
			"response": {"breakdown": {"total_kg": 5}}}],
		"baselineId": "a",
		"scenarioId": "gone"
	}`
	require.NoError(t, slot.Write(context.Background(), []byte(doc)))

	state := session.NewService(slot).Load(context.Background())
	assert.Equal(t, session.StateVersion, state.Version)
	assert.Equal(t, 3, state.RequestDraft.HouseholdSize)
	assert.Equal(t, "quick", string(state.RequestDraft.Mode))
	require.NotNil(t, state.BaselineID)
	assert.Equal(t, "a", *state.BaselineID)
	assert.Nil(t, state.ScenarioID, "dangling pointer cleared")
	assert.Nil(t, state.LastResult)
}

func TestService_SavePropagatesStorageError(t *testing.T) {
	slot := store.NewMemorySlot()
	svc := session.NewService(slot)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, seeded(t)))

	slot.FailWrites = errors.New("quota exceeded")
	state := seeded(t).Delete("snap-001")
	err := svc.Save(ctx, state)
	require.ErrorIs(t, err, session.ErrStorage)
	assert.Equal(t, 2, state.Len(), "caller's value is untouched")
	assert.Equal(t, 3, svc.Load(ctx).Len(), "persisted state is untouched")
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := session.NewService(store.NewMemorySlot())
	require.NoError(t, svc.Save(ctx, seeded(t)))

	next, err := svc.Update(ctx, func(s session.State) (session.State, error) {
		return s.Delete("snap-002"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, next.Len())
	assert.Equal(t, 2, svc.Load(ctx).Len())

	boom := errors.New("boom")
	_, err = svc.Update(ctx, func(s session.State) (session.State, error) {
		return s.Delete("snap-001"), boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, svc.Load(ctx).Len(), "failed update saves nothing")
}

func TestService_Clear(t *testing.T) {
	ctx := context.Background()
	svc := session.NewService(store.NewMemorySlot())
	require.NoError(t, svc.Save(ctx, seeded(t)))
	require.NoError(t, svc.Clear(ctx))
	assert.Equal(t, 0, svc.Load(ctx).Len())
}

func TestService_PersistedShape(t *testing.T) {
	ctx := context.Background()
	slot := store.NewMemorySlot()
	require.NoError(t, session.NewService(slot).Save(ctx, session.DefaultState()))

	data, err := slot.Read(ctx)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, key := range []string{"version", "mode", "requestDraft", "lastResult", "snapshots", "baselineId", "scenarioId"} {
		assert.Contains(t, doc, key)
	}
	assert.Nil(t, doc["baselineId"])
	assert.Equal(t, []any{}, doc["snapshots"])
}
