package session

import "strconv"

// ScenarioBase returns the snapshot a new scenario starts from: the pinned
// baseline, or the oldest snapshot when no baseline is pinned.
func (s State) ScenarioBase() (Snapshot, bool) {
	if snap, ok := s.Baseline(); ok {
		return snap, true
	}
	sorted := s.SortedByCreated()
	if len(sorted) == 0 {
		return Snapshot{}, false
	}
	return sorted[len(sorted)-1], true
}

// NextScenarioLabel is the default label of a new scenario, "Scenario N"
// where N is the current snapshot count (at least 1).
func (s State) NextScenarioLabel() string {
	return "Scenario " + strconv.Itoa(max(1, s.Len()))
}

// RecordScenario stores a scenario snapshot built from baseID. The new
// snapshot becomes the current result and the scenario; baseID becomes the
// baseline only when no baseline is pinned.
func (s State) RecordScenario(snap Snapshot, baseID string) State {
	out := s.Record(snap)
	if out.BaselineID == nil {
		out = out.SetBaseline(baseID)
	}
	return out.SetScenario(&snap.ID)
}
