package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/greenr/internal/footprint"
	"github.com/rshade/greenr/internal/session"
	"github.com/rshade/greenr/internal/testutil"
)

func newRepo() (*session.Repository, *testutil.StubClock) {
	clock := testutil.FixedClock()
	return session.NewRepository(
		session.WithClock(clock),
		session.WithIDGenerator(testutil.NewSequenceIDs("snap")),
	), clock
}

// seeded returns a state with three snapshots created one hour apart.
func seeded(t *testing.T) session.State {
	t.Helper()
	repo, clock := newRepo()
	state := session.DefaultState()
	for _, label := range []string{"first", "second", "third"} {
		snap := repo.Create(label, testutil.Input(7000, 2), testutil.Result(testutil.Kg{Vehicle: 3500}))
		state = state.Add(snap)
		clock.Advance(time.Hour)
	}
	require.Equal(t, 3, state.Len())
	return state
}

func TestRepository_Create(t *testing.T) {
	repo, clock := newRepo()
	in := testutil.Input(7000, 0)
	res := testutil.Result(testutil.Kg{Vehicle: 3500, Electricity: 1200})

	snap := repo.Create("  Baseline  ", in, res)
	assert.Equal(t, "snap-001", snap.ID)
	assert.Equal(t, "Baseline", snap.Label)
	assert.Equal(t, clock.Now(), snap.CreatedAt)
	assert.Equal(t, in, snap.Request)
	assert.Equal(t, res, snap.Response)
	assert.Empty(t, snap.Note)
	assert.Nil(t, snap.Tags)

	blank := repo.Create("", in, res)
	assert.Equal(t, session.UntitledLabel, blank.Label)
	assert.NotEqual(t, snap.ID, blank.ID)
}

func TestULIDGenerator_Unique(t *testing.T) {
	gen := session.NewULIDGenerator()
	at := time.Now()
	seen := make(map[string]bool)
	for range 1000 {
		id := gen.New(at)
		require.Len(t, id, 26)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestState_AddAndGet(t *testing.T) {
	state := seeded(t)

	snap, ok := state.Get("snap-002")
	require.True(t, ok)
	assert.Equal(t, "second", snap.Label)

	_, ok = state.Get("missing")
	assert.False(t, ok, "absent is reported, not an error")

	// Add prepends new snapshots and replaces existing ids in place.
	assert.Equal(t, "snap-003", state.Snapshots[0].ID)
	snap.Label = "renamed"
	replaced := state.Add(snap)
	assert.Equal(t, 3, replaced.Len())
	got, _ := replaced.Get("snap-002")
	assert.Equal(t, "renamed", got.Label)
}

func TestState_TransitionsDoNotMutateReceiver(t *testing.T) {
	state := seeded(t)
	before := append([]session.Snapshot(nil), state.Snapshots...)

	_ = state.Delete("snap-001")
	_ = state.UpdateMetadata("snap-002", session.MetadataPatch{Label: testutil.Ptr("x")})
	_ = state.Add(session.Snapshot{ID: "other"})

	assert.Equal(t, before, state.Snapshots)
}

func TestState_Record(t *testing.T) {
	repo, _ := newRepo()
	in := testutil.Input(100, 1)
	snap := repo.Create("run", in, testutil.Result(testutil.Kg{Diet: 10}))

	state := session.DefaultState().Record(snap)
	require.NotNil(t, state.LastResult)
	assert.InDelta(t, 10.0, state.LastResult.Breakdown.TotalKg, 0)
	assert.Equal(t, in, state.RequestDraft)
	assert.Equal(t, 1, state.Len())
}

func TestState_UpdateMetadata(t *testing.T) {
	state := seeded(t)
	original, _ := state.Get("snap-001")

	tests := []struct {
		name   string
		patch  session.MetadataPatch
		verify func(t *testing.T, got session.Snapshot)
	}{
		{
			name:  "label only",
			patch: session.MetadataPatch{Label: testutil.Ptr("Winter baseline")},
			verify: func(t *testing.T, got session.Snapshot) {
				assert.Equal(t, "Winter baseline", got.Label)
				assert.Empty(t, got.Note)
			},
		},
		{
			name:  "blank label becomes Untitled",
			patch: session.MetadataPatch{Label: testutil.Ptr("   ")},
			verify: func(t *testing.T, got session.Snapshot) {
				assert.Equal(t, session.UntitledLabel, got.Label)
			},
		},
		{
			name:  "note and tags",
			patch: session.MetadataPatch{Note: testutil.Ptr("sold the car"), Tags: []string{" low-car ", "", "2024"}},
			verify: func(t *testing.T, got session.Snapshot) {
				assert.Equal(t, "first", got.Label)
				assert.Equal(t, "sold the car", got.Note)
				assert.Equal(t, []string{"low-car", "2024"}, got.Tags)
			},
		},
		{
			name:  "clear tags",
			patch: session.MetadataPatch{SetTags: true},
			verify: func(t *testing.T, got session.Snapshot) {
				assert.Nil(t, got.Tags)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := state.UpdateMetadata("snap-001", tt.patch)
			got, ok := next.Get("snap-001")
			require.True(t, ok)
			tt.verify(t, got)

			// Immutable fields never change.
			assert.Equal(t, original.ID, got.ID)
			assert.Equal(t, original.CreatedAt, got.CreatedAt)
			assert.Equal(t, original.Request, got.Request)
			assert.Equal(t, original.Response, got.Response)
		})
	}

	t.Run("missing id is a no-op", func(t *testing.T) {
		next := state.UpdateMetadata("missing", session.MetadataPatch{Label: testutil.Ptr("x")})
		assert.Equal(t, state, next)
	})
}

func TestState_DeleteClearsPointers(t *testing.T) {
	state := seeded(t).SetBaseline("snap-001").SetScenario(testutil.Ptr("snap-002"))

	next := state.Delete("snap-001")
	assert.Nil(t, next.BaselineID)
	require.NotNil(t, next.ScenarioID)
	assert.Equal(t, "snap-002", *next.ScenarioID)
	assert.Equal(t, 2, next.Len())

	next = next.Delete("snap-002")
	assert.Nil(t, next.ScenarioID)

	unchanged := next.Delete("missing")
	assert.Equal(t, next.Len(), unchanged.Len())
}

func TestState_PointerIntegrity(t *testing.T) {
	repo, clock := newRepo()
	state := session.DefaultState()

	// A fixed create/delete/pointer script; after every step each non-nil
	// pointer must name an existing snapshot.
	steps := []func(session.State) session.State{
		func(s session.State) session.State { return s.Add(repo.Create("a", footprint.DefaultDraft(), testutil.Result(testutil.Kg{}))) },
		func(s session.State) session.State { return s.SetBaseline("snap-001") },
		func(s session.State) session.State { return s.Add(repo.Create("b", footprint.DefaultDraft(), testutil.Result(testutil.Kg{}))) },
		func(s session.State) session.State { return s.SetScenario(testutil.Ptr("snap-002")) },
		func(s session.State) session.State { return s.Delete("snap-002") },
		func(s session.State) session.State { return s.SetScenario(testutil.Ptr("snap-404")) },
		func(s session.State) session.State { return s.Add(repo.Create("c", footprint.DefaultDraft(), testutil.Result(testutil.Kg{}))) },
		func(s session.State) session.State { return s.SetScenario(testutil.Ptr("snap-003")) },
		func(s session.State) session.State { return s.Delete("snap-001") },
		func(s session.State) session.State { return s.SetBaseline("snap-001") },
		func(s session.State) session.State { return s.Delete("snap-003") },
	}

	for i, step := range steps {
		clock.Advance(time.Minute)
		state = step(state)
		for _, ptr := range []*string{state.BaselineID, state.ScenarioID} {
			if ptr == nil {
				continue
			}
			_, ok := state.Get(*ptr)
			assert.True(t, ok, "step %d: pointer %s dangles", i, *ptr)
		}
	}
	assert.Nil(t, state.BaselineID)
	assert.Nil(t, state.ScenarioID)
}

func TestState_SetBaselineClearsEqualScenario(t *testing.T) {
	state := seeded(t).SetScenario(testutil.Ptr("snap-002"))

	next := state.SetBaseline("snap-002")
	require.NotNil(t, next.BaselineID)
	assert.Equal(t, "snap-002", *next.BaselineID)
	assert.Nil(t, next.ScenarioID)

	other := state.SetBaseline("snap-001")
	require.NotNil(t, other.ScenarioID, "a different baseline leaves the scenario alone")
}

func TestState_SetScenarioToBaselineIsAllowed(t *testing.T) {
	state := seeded(t).SetBaseline("snap-001").SetScenario(testutil.Ptr("snap-001"))
	require.NotNil(t, state.BaselineID)
	require.NotNil(t, state.ScenarioID)
	assert.Equal(t, *state.BaselineID, *state.ScenarioID)
}

func TestState_SetPointersIgnoreUnknownIDs(t *testing.T) {
	state := seeded(t)
	assert.Nil(t, state.SetBaseline("missing").BaselineID)
	assert.Nil(t, state.SetScenario(testutil.Ptr("missing")).ScenarioID)

	withScenario := state.SetScenario(testutil.Ptr("snap-003"))
	assert.Nil(t, withScenario.SetScenario(nil).ScenarioID)
}

func TestState_SetCurrent(t *testing.T) {
	state := seeded(t)
	next := state.SetCurrent("snap-002")
	require.NotNil(t, next.LastResult)
	snap, _ := state.Get("snap-002")
	assert.Equal(t, snap.Response, *next.LastResult)
	assert.Equal(t, snap.Request, next.RequestDraft)

	assert.Equal(t, state, state.SetCurrent("missing"))
}

func TestState_ResolvePair(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, _, ok := session.DefaultState().ResolvePair()
		assert.False(t, ok)
	})

	t.Run("single snapshot", func(t *testing.T) {
		repo, _ := newRepo()
		state := session.DefaultState().Add(repo.Create("only", footprint.DefaultDraft(), testutil.Result(testutil.Kg{})))
		base, _, ok := state.ResolvePair()
		assert.False(t, ok)
		assert.Equal(t, "snap-001", base.ID)
	})

	t.Run("defaults to oldest and newest", func(t *testing.T) {
		base, scen, ok := seeded(t).ResolvePair()
		require.True(t, ok)
		assert.Equal(t, "snap-001", base.ID)
		assert.Equal(t, "snap-003", scen.ID)
	})

	t.Run("explicit pointers win", func(t *testing.T) {
		state := seeded(t).SetBaseline("snap-002").SetScenario(testutil.Ptr("snap-001"))
		base, scen, ok := state.ResolvePair()
		require.True(t, ok)
		assert.Equal(t, "snap-002", base.ID)
		assert.Equal(t, "snap-001", scen.ID)
	})

	t.Run("baseline pinned to newest without scenario", func(t *testing.T) {
		base, scen, ok := seeded(t).SetBaseline("snap-003").ResolvePair()
		require.True(t, ok)
		assert.Equal(t, "snap-003", base.ID)
		assert.Equal(t, "snap-002", scen.ID, "newest snapshot other than the baseline")
	})

	t.Run("baseline pinned to the only snapshot", func(t *testing.T) {
		repo, _ := newRepo()
		state := session.DefaultState().Add(repo.Create("only", footprint.DefaultDraft(), testutil.Result(testutil.Kg{})))
		base, _, ok := state.SetBaseline("snap-001").ResolvePair()
		assert.False(t, ok)
		assert.Equal(t, "snap-001", base.ID)
	})
}
