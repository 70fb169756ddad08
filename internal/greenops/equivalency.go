package greenops

import (
	"fmt"
	"math"
	"sort"

	"github.com/rshade/greenr/internal/footprint"
	"github.com/rshade/greenr/internal/session"
)

// Compare computes the change from baseline to scenario.
//
// Every category delta is scenario minus baseline, rounded to two decimals.
// When the absolute total change is at least MinEquivalencyThresholdKg,
// Compare derives up to three personalized equivalencies from the
// baseline's own intensities; if none is valid it sets Fallback instead.
// Compare is pure: Compare(a, b) and Compare(b, a) yield negated deltas.
func Compare(baseline, scenario session.Snapshot) Comparison {
	b := baseline.Response.Breakdown
	s := scenario.Response.Breakdown

	cmp := Comparison{
		BaselineID:      baseline.ID,
		BaselineLabel:   baseline.Label,
		ScenarioID:      scenario.ID,
		ScenarioLabel:   scenario.Label,
		Categories:      categoryDeltas(b, s),
		BaselineTotalKg: b.TotalKg,
		ScenarioTotalKg: s.TotalKg,
		TotalDeltaKg:    s.TotalKg - b.TotalKg,
		Equivalents:     []EquivalencyResult{},
		VersionMismatch: versionsDiffer(
			baseline.Response.CalculationVersion,
			scenario.Response.CalculationVersion,
		),
	}
	cmp.Direction = directionOf(cmp.TotalDeltaKg)
	cmp.PercentChange = percentChange(cmp.TotalDeltaKg, b.TotalKg)

	absKg := math.Abs(cmp.TotalDeltaKg)
	if math.IsNaN(absKg) || math.IsInf(absKg, 0) || absKg < MinEquivalencyThresholdKg {
		return cmp
	}
	cmp.Significant = true

	cmp.Equivalents = personalizedEquivalents(absKg, baseline)
	if len(cmp.Equivalents) > MaxEquivalencies {
		cmp.Equivalents = cmp.Equivalents[:MaxEquivalencies]
	}
	if len(cmp.Equivalents) == 0 {
		fb := largestChange(cmp.Categories)
		cmp.Fallback = &fb
	}
	return cmp
}

// Delta returns the rounded delta recorded for c.
func (c Comparison) Delta(cat footprint.Category) float64 {
	for _, d := range c.Categories {
		if d.Category == cat {
			return d.DeltaKg
		}
	}
	return 0
}

// RankedDeltas returns the category deltas ordered by absolute change,
// largest first. Equal changes keep canonical category order.
func (c Comparison) RankedDeltas() []CategoryDelta {
	out := make([]CategoryDelta, len(c.Categories))
	copy(out, c.Categories)
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].DeltaKg) > math.Abs(out[j].DeltaKg)
	})
	return out
}

// Explanations returns the equivalents panel items: the equivalencies when
// any were computed, otherwise the fallback. Empty when not significant.
func (c Comparison) Explanations() []Explanation {
	if !c.Significant {
		return nil
	}
	items := make([]Explanation, 0, len(c.Equivalents)+1)
	for _, eq := range c.Equivalents {
		items = append(items, Explanation{Title: eq.Title, Body: eq.DisplayText})
	}
	if c.Fallback != nil {
		items = append(items, Explanation{Title: c.Fallback.Title, Body: c.Fallback.DisplayText})
	}
	return items
}

func categoryDeltas(b, s footprint.Breakdown) []CategoryDelta {
	cats := footprint.Categories()
	out := make([]CategoryDelta, 0, len(cats))
	for _, cat := range cats {
		out = append(out, CategoryDelta{
			Category:   cat,
			BaselineKg: b.Kg(cat),
			ScenarioKg: s.Kg(cat),
			DeltaKg:    roundTo(s.Kg(cat)-b.Kg(cat), deltaPrecision),
		})
	}
	return out
}

func directionOf(totalDelta float64) Direction {
	if totalDelta < 0 {
		return DirectionReduction
	}
	return DirectionIncrease
}

func percentChange(delta, base float64) int {
	if base <= 0 {
		return 0
	}
	pct := math.Round(delta / base * 100)
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	return int(pct)
}

// personalizedEquivalents tries each intensity independently, in the fixed
// order driving, flights, electricity. Each guard rejects ratios with a zero
// or missing denominator.
func personalizedEquivalents(absKg float64, baseline session.Snapshot) []EquivalencyResult {
	b := baseline.Response.Breakdown
	in := baseline.Request

	var out []EquivalencyResult

	if miles := in.Vehicle.AnnualMiles; miles > 0 && b.VehicleKg > 0 {
		intensity := b.VehicleKg / miles
		if eq, ok := drivingEquivalent(absKg, intensity); ok {
			out = append(out, eq)
		}
	}

	if flights := in.Flights.ShortHaulCount; flights > 0 && b.FlightsKg > 0 {
		intensity := b.FlightsKg / float64(flights)
		if eq, ok := flightEquivalent(absKg, intensity); ok {
			out = append(out, eq)
		}
	}

	if b.ElectricityKg > 0 {
		intensity := b.ElectricityKg / MonthsPerYear
		if eq, ok := electricityEquivalent(absKg, intensity); ok {
			out = append(out, eq)
		}
	}

	return out
}

func drivingEquivalent(absKg, kgPerMile float64) (EquivalencyResult, bool) {
	miles := absKg / kgPerMile
	if !finitePositive(miles) {
		return EquivalencyResult{}, false
	}
	formatted := formatEquivalencyValue(miles)
	return EquivalencyResult{
		Type:           EquivalencyMilesDriven,
		Value:          miles,
		Intensity:      kgPerMile,
		FormattedValue: formatted,
		Title:          "Driving equivalent",
		Label:          "miles driven",
		DisplayText:    fmt.Sprintf("≈ %s miles driven (based on your baseline vehicle intensity)", formatted),
	}, true
}

func flightEquivalent(absKg, kgPerFlight float64) (EquivalencyResult, bool) {
	raw := absKg / kgPerFlight
	if !finitePositive(raw) {
		return EquivalencyResult{}, false
	}
	flights := roundTo(raw, equivalentPrecision)
	formatted := FormatFloat(flights, equivalentPrecision)
	return EquivalencyResult{
		Type:           EquivalencyShortHaulFlights,
		Value:          flights,
		Intensity:      kgPerFlight,
		FormattedValue: formatted,
		Title:          "Flight equivalent",
		Label:          "short-haul flights",
		DisplayText:    fmt.Sprintf("≈ %s short-haul flights (based on your baseline flight intensity)", formatted),
	}, true
}

func electricityEquivalent(absKg, kgPerMonth float64) (EquivalencyResult, bool) {
	raw := absKg / kgPerMonth
	if !finitePositive(raw) {
		return EquivalencyResult{}, false
	}
	months := roundTo(raw, equivalentPrecision)
	formatted := FormatFloat(months, equivalentPrecision)
	return EquivalencyResult{
		Type:           EquivalencyElectricityMonths,
		Value:          months,
		Intensity:      kgPerMonth,
		FormattedValue: formatted,
		Title:          "Home electricity equivalent",
		Label:          "months of electricity",
		DisplayText:    fmt.Sprintf("≈ %s months of your baseline home electricity", formatted),
	}, true
}

// fallbackCandidates are the categories that have a personalized
// equivalency. The fallback names the one among them that moved most.
//
//nolint:gochecknoglobals // Fixed lookup order.
var fallbackCandidates = []footprint.Category{
	footprint.Vehicle,
	footprint.Flights,
	footprint.Electricity,
}

// largestChange picks the candidate category with the largest absolute
// delta, earlier candidates winning ties. When none of the candidates moved,
// every category is considered so the fallback still names the real driver.
func largestChange(deltas []CategoryDelta) Fallback {
	byCat := make(map[footprint.Category]float64, len(deltas))
	for _, d := range deltas {
		byCat[d.Category] = d.DeltaKg
	}

	pick := func(cats []footprint.Category) (footprint.Category, float64) {
		best, bestKg := cats[0], byCat[cats[0]]
		for _, c := range cats[1:] {
			if math.Abs(byCat[c]) > math.Abs(bestKg) {
				best, bestKg = c, byCat[c]
			}
		}
		return best, bestKg
	}

	cat, kg := pick(fallbackCandidates)
	if kg == 0 {
		cat, kg = pick(footprint.Categories())
	}

	return Fallback{
		Category: cat,
		DeltaKg:  kg,
		Title:    "What it's most like",
		DisplayText: fmt.Sprintf(
			"Most of this change comes from %s (Δ %s). Add more baseline inputs to unlock personalized equivalents.",
			cat.Title(), FormatSignedKg(kg)),
	}
}

// formatEquivalencyValue formats an equivalency value for display, using
// large number scaling for million/billion values and a rounded,
// comma-separated integer otherwise.
func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
