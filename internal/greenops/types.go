// Package greenops compares two saved footprints and translates the change
// into relatable equivalencies.
//
// Equivalencies are personalized: each one divides the change by an
// intensity derived from the baseline's own data (kg CO2e per mile driven,
// per short-haul flight, per month of electricity) rather than a population
// average. When the baseline cannot support any intensity, the comparison
// instead names the category that changed most.
package greenops

import (
	"fmt"

	"github.com/rshade/greenr/internal/footprint"
)

// EquivalencyType represents a category of carbon emission equivalency.
type EquivalencyType int

const (
	// EquivalencyMilesDriven converts CO2e to miles driven at the baseline vehicle intensity.
	EquivalencyMilesDriven EquivalencyType = iota

	// EquivalencyShortHaulFlights converts CO2e to short-haul flights at the baseline flight intensity.
	EquivalencyShortHaulFlights

	// EquivalencyElectricityMonths converts CO2e to months of the baseline household electricity.
	EquivalencyElectricityMonths
)

// String returns a human-readable representation of the EquivalencyType.
func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencyShortHaulFlights:
		return "ShortHaulFlights"
	case EquivalencyElectricityMonths:
		return "ElectricityMonths"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// MarshalText renders the type by name in JSON output.
func (e EquivalencyType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Direction is the sign of the total change.
type Direction string

const (
	// DirectionReduction means the scenario emits less than the baseline.
	DirectionReduction Direction = "reduction"
	// DirectionIncrease means the scenario emits as much or more.
	DirectionIncrease Direction = "increase"
)

// CategoryDelta is the change in one category, scenario minus baseline.
type CategoryDelta struct {
	Category   footprint.Category `json:"category"`
	BaselineKg float64            `json:"baseline_kg"`
	ScenarioKg float64            `json:"scenario_kg"`
	// DeltaKg is rounded to two decimal places.
	DeltaKg float64 `json:"delta_kg"`
}

// EquivalencyResult represents a single calculated equivalency.
type EquivalencyResult struct {
	// Type identifies the equivalency category.
	Type EquivalencyType `json:"type"`

	// Value is the equivalent quantity. Flights and months are rounded to one decimal.
	Value float64 `json:"value"`

	// Intensity is the baseline-derived kg CO2e per unit used as the divisor.
	Intensity float64 `json:"intensity_kg_per_unit"`

	// FormattedValue is the display-ready string with separators.
	FormattedValue string `json:"formatted_value"`

	// Title names the equivalency for display (e.g., "Driving equivalent").
	Title string `json:"title"`

	// Label is the descriptive phrase (e.g., "miles driven").
	Label string `json:"label"`

	// DisplayText is the full sentence shown to the user.
	DisplayText string `json:"display_text"`
}

// Fallback names the category that changed most when no personalized
// equivalency could be computed.
type Fallback struct {
	Category    footprint.Category `json:"category"`
	DeltaKg     float64            `json:"delta_kg"`
	Title       string             `json:"title"`
	DisplayText string             `json:"display_text"`
}

// Explanation is one item of the equivalents panel.
type Explanation struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Comparison is the full result of comparing a baseline with a scenario.
type Comparison struct {
	BaselineID    string `json:"baseline_id"`
	BaselineLabel string `json:"baseline_label"`
	ScenarioID    string `json:"scenario_id"`
	ScenarioLabel string `json:"scenario_label"`

	// Categories holds one delta per category in canonical order.
	Categories []CategoryDelta `json:"categories"`

	BaselineTotalKg float64   `json:"baseline_total_kg"`
	ScenarioTotalKg float64   `json:"scenario_total_kg"`
	TotalDeltaKg    float64   `json:"total_delta_kg"`
	Direction       Direction `json:"direction"`

	// PercentChange is the total change relative to the baseline total,
	// rounded to a whole percent. Zero when the baseline total is not positive.
	PercentChange int `json:"percent_change"`

	// Significant is false when |TotalDeltaKg| is below MinEquivalencyThresholdKg.
	// Insignificant comparisons carry no equivalencies and no fallback.
	Significant bool `json:"significant"`

	// Equivalents holds at most MaxEquivalencies entries in fixed order:
	// driving, flights, electricity.
	Equivalents []EquivalencyResult `json:"equivalents"`

	// Fallback is set only when the comparison is significant and no
	// equivalency was valid.
	Fallback *Fallback `json:"fallback,omitempty"`

	// VersionMismatch reports results produced by different major
	// calculation versions.
	VersionMismatch bool `json:"version_mismatch"`
}
