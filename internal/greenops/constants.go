package greenops

// Display threshold constants control when equivalencies are shown.
const (
	// MinEquivalencyThresholdKg is the minimum |total change| in kg CO2e for
	// showing equivalencies. Below it the change is treated as noise.
	MinEquivalencyThresholdKg = 1.0

	// MaxEquivalencies caps the equivalents panel.
	MaxEquivalencies = 3

	// MonthsPerYear converts annual electricity emissions to a monthly intensity.
	MonthsPerYear = 12.0

	// LargeNumberThreshold is the threshold for using abbreviated display.
	// Values at or above this threshold use "~X.X million" format.
	LargeNumberThreshold = 1_000_000

	// BillionThreshold is the threshold for billion-scale display.
	BillionThreshold = 1_000_000_000
)

// Rounding precisions.
const (
	deltaPrecision      = 2
	equivalentPrecision = 1
)
