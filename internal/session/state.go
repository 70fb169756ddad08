package session

import (
	"github.com/rshade/greenr/internal/footprint"
)

// StateVersion is the schema version written into persisted state.
const StateVersion = 1

// State is the root aggregate persisted in the session slot.
type State struct {
	Version      int                          `json:"version"`
	Mode         *footprint.Mode              `json:"mode"`
	RequestDraft footprint.CalculationInput   `json:"requestDraft"`
	LastResult   *footprint.CalculationResult `json:"lastResult"`
	Snapshots    []Snapshot                   `json:"snapshots"`
	BaselineID   *string                      `json:"baselineId"`
	ScenarioID   *string                      `json:"scenarioId"`
}

// DefaultState returns the state of a fresh installation.
func DefaultState() State {
	return State{
		Version:      StateVersion,
		RequestDraft: footprint.DefaultDraft(),
		Snapshots:    []Snapshot{},
	}
}

// MetadataPatch lists the metadata fields to replace. Nil fields are kept.
type MetadataPatch struct {
	Label *string
	Note  *string
	Tags  []string
	// SetTags distinguishes "replace tags with an empty set" from "keep tags".
	SetTags bool
}

// clone copies the snapshot slice so transitions never alias the receiver.
func (s State) clone() State {
	out := s
	out.Snapshots = make([]Snapshot, len(s.Snapshots))
	copy(out.Snapshots, s.Snapshots)
	return out
}

func (s State) indexOf(id string) int {
	for i := range s.Snapshots {
		if s.Snapshots[i].ID == id {
			return i
		}
	}
	return -1
}

// Len returns the number of snapshots.
func (s State) Len() int { return len(s.Snapshots) }

// Get looks up a snapshot. Absence is reported through ok, not an error.
func (s State) Get(id string) (Snapshot, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Snapshots[i], true
	}
	return Snapshot{}, false
}

// Add inserts snap at the front, replacing any snapshot with the same id in place.
func (s State) Add(snap Snapshot) State {
	out := s.clone()
	if i := out.indexOf(snap.ID); i >= 0 {
		out.Snapshots[i] = snap
		return out
	}
	out.Snapshots = append([]Snapshot{snap}, out.Snapshots...)
	return out
}

// Record stores a freshly computed snapshot and makes it the current result.
func (s State) Record(snap Snapshot) State {
	out := s.Add(snap)
	res := snap.Response
	out.LastResult = &res
	out.RequestDraft = snap.Request
	return out
}

// UpdateMetadata replaces only the fields set in patch. Unknown ids are a no-op.
func (s State) UpdateMetadata(id string, patch MetadataPatch) State {
	i := s.indexOf(id)
	if i < 0 {
		return s
	}
	out := s.clone()
	snap := out.Snapshots[i]
	if patch.Label != nil {
		snap.Label = normalizeLabel(*patch.Label)
	}
	if patch.Note != nil {
		snap.Note = *patch.Note
	}
	if patch.SetTags || patch.Tags != nil {
		snap.Tags = normalizeTags(patch.Tags)
	}
	out.Snapshots[i] = snap
	return out
}

// Delete removes a snapshot and clears any pointer that referenced it.
func (s State) Delete(id string) State {
	out := s.clone()
	if i := out.indexOf(id); i >= 0 {
		out.Snapshots = append(out.Snapshots[:i], out.Snapshots[i+1:]...)
	}
	if pointsTo(out.BaselineID, id) {
		out.BaselineID = nil
	}
	if pointsTo(out.ScenarioID, id) {
		out.ScenarioID = nil
	}
	return out
}

// SetBaseline pins id as the baseline. A scenario pointing at the same id is
// cleared. Ids that do not exist are ignored.
func (s State) SetBaseline(id string) State {
	if s.indexOf(id) < 0 {
		return s
	}
	out := s
	out.BaselineID = &id
	if pointsTo(out.ScenarioID, id) {
		out.ScenarioID = nil
	}
	return out
}

// SetScenario pins id as the scenario, or clears it when id is nil.
// Ids that do not exist are ignored. Pinning the current baseline is allowed.
func (s State) SetScenario(id *string) State {
	out := s
	if id == nil {
		out.ScenarioID = nil
		return out
	}
	if s.indexOf(*id) < 0 {
		return s
	}
	v := *id
	out.ScenarioID = &v
	return out
}

// Baseline returns the snapshot the baseline pointer references.
func (s State) Baseline() (Snapshot, bool) {
	if s.BaselineID == nil {
		return Snapshot{}, false
	}
	return s.Get(*s.BaselineID)
}

// Scenario returns the snapshot the scenario pointer references.
func (s State) Scenario() (Snapshot, bool) {
	if s.ScenarioID == nil {
		return Snapshot{}, false
	}
	return s.Get(*s.ScenarioID)
}

// SetCurrent loads a snapshot's request and result back into the draft.
// Unknown ids are a no-op.
func (s State) SetCurrent(id string) State {
	snap, ok := s.Get(id)
	if !ok {
		return s
	}
	out := s
	out.RequestDraft = snap.Request
	res := snap.Response
	out.LastResult = &res
	return out
}

// ResolvePair picks the snapshots to compare. Explicit pointers win. Without
// a baseline pointer the oldest snapshot is used; without a scenario pointer
// the newest snapshot other than the baseline is used.
func (s State) ResolvePair() (baseline, scenario Snapshot, ok bool) {
	sorted := s.SortedByCreated()
	if len(sorted) == 0 {
		return Snapshot{}, Snapshot{}, false
	}

	baseline, hasBase := s.Baseline()
	if !hasBase {
		baseline = sorted[len(sorted)-1]
	}

	scenario, hasScen := s.Scenario()
	if hasScen {
		return baseline, scenario, true
	}
	for _, snap := range sorted {
		if snap.ID != baseline.ID {
			return baseline, snap, true
		}
	}
	return baseline, Snapshot{}, false
}

// normalize repairs a decoded state: defaults for missing fields and
// dangling pointers cleared. It reports whether anything was repaired.
func (s State) normalize() (State, bool) {
	repaired := false
	out := s
	if out.Version == 0 {
		out.Version = StateVersion
	}
	if out.Snapshots == nil {
		out.Snapshots = []Snapshot{}
	}
	def := footprint.DefaultDraft()
	if out.RequestDraft.Mode == "" {
		out.RequestDraft.Mode = def.Mode
	}
	if out.RequestDraft.HouseholdSize == 0 {
		out.RequestDraft.HouseholdSize = def.HouseholdSize
	}
	if out.BaselineID != nil && out.indexOf(*out.BaselineID) < 0 {
		out.BaselineID = nil
		repaired = true
	}
	if out.ScenarioID != nil && out.indexOf(*out.ScenarioID) < 0 {
		out.ScenarioID = nil
		repaired = true
	}
	return out, repaired
}

func pointsTo(ptr *string, id string) bool {
	return ptr != nil && *ptr == id
}
