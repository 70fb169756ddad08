package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/greenr/internal/greenops"
	"github.com/rshade/greenr/internal/session"
	"github.com/rshade/greenr/internal/testutil"
)

func TestRenderDelta(t *testing.T) {
	t.Run("renders increase with plus sign and up arrow", func(t *testing.T) {
		result := RenderDelta(400, 0)

		assert.Contains(t, result, "+400 kg")
		assert.Contains(t, result, IconArrowUp)
	})

	t.Run("renders reduction with down arrow", func(t *testing.T) {
		result := RenderDelta(-1000, 0)

		assert.NotContains(t, result, "+")
		assert.Contains(t, result, "-1,000 kg")
		assert.Contains(t, result, IconArrowDown)
	})

	t.Run("rounds tiny changes to zero", func(t *testing.T) {
		result := RenderDelta(-0.004, 2)

		assert.Contains(t, result, IconArrowRight)
		assert.Contains(t, result, "0.00 kg")
		assert.NotContains(t, result, "-")
	})
}

func vehicleComparison() greenops.Comparison {
	now := testutil.FixedClock().Now()
	baseline := testutil.Snapshot("base", now, testutil.Input(7000, 0), testutil.Kg{Vehicle: 3500, Electricity: 1200})
	scenario := testutil.Snapshot("scen", now, testutil.Input(7000, 0), testutil.Kg{Vehicle: 2500, Electricity: 1200})
	baseline.Label = "Gas car"
	scenario.Label = "Hybrid"
	return greenops.Compare(baseline, scenario)
}

func TestRenderComparison(t *testing.T) {
	t.Run("renders totals, categories and equivalents", func(t *testing.T) {
		result := RenderComparison(vehicleComparison(), 0, 0)

		assert.Contains(t, result, "Scenario Comparison")
		assert.Contains(t, result, "Gas car")
		assert.Contains(t, result, "4,700 kg")
		assert.Contains(t, result, "Hybrid")
		assert.Contains(t, result, "3,700 kg")
		assert.Contains(t, result, "-21%")
		assert.Contains(t, result, "reduction")
		assert.Contains(t, result, "Vehicle")
		assert.Contains(t, result, "Consumption")
		assert.Contains(t, result, "≈ 2,000 miles driven")
		assert.Contains(t, result, "months of your baseline home electricity")
		assert.NotContains(t, result, "calculation versions")
	})

	t.Run("names the largest category change", func(t *testing.T) {
		now := testutil.FixedClock().Now()
		a := testutil.Snapshot("a", now, testutil.Input(0, 0), testutil.Kg{Diet: 2000, Heating: 800})
		b := testutil.Snapshot("b", now, testutil.Input(0, 0), testutil.Kg{Diet: 1500, Heating: 900})

		result := RenderComparison(greenops.Compare(a, b), 0, 0)

		assert.Contains(t, result, "Largest:")
		assert.Regexp(t, `Largest:\s+\S*Diet`, result)
	})

	t.Run("omits largest change when nothing moved", func(t *testing.T) {
		now := testutil.FixedClock().Now()
		a := testutil.Snapshot("a", now, testutil.Input(0, 0), testutil.Kg{Diet: 2000})

		assert.NotContains(t, RenderComparison(greenops.Compare(a, a), 0, 0), "Largest:")
	})

	t.Run("explains insignificant change", func(t *testing.T) {
		now := testutil.FixedClock().Now()
		a := testutil.Snapshot("a", now, testutil.Input(0, 0), testutil.Kg{Diet: 100})
		b := testutil.Snapshot("b", now, testutil.Input(0, 0), testutil.Kg{Diet: 100.5})

		result := RenderComparison(greenops.Compare(a, b), 1, 0)

		assert.Contains(t, result, "under 1 kg CO2e")
		assert.NotContains(t, result, "≈")
	})

	t.Run("renders fallback", func(t *testing.T) {
		now := testutil.FixedClock().Now()
		a := testutil.Snapshot("a", now, testutil.Input(0, 0), testutil.Kg{Consumption: 1000})
		b := testutil.Snapshot("b", now, testutil.Input(0, 0), testutil.Kg{Consumption: 1400})

		result := RenderComparison(greenops.Compare(a, b), 0, 0)

		assert.Contains(t, result, "What it's most like")
		assert.Contains(t, result, "Consumption (Δ +400 kg)")
	})

	t.Run("notes version mismatch", func(t *testing.T) {
		cmp := vehicleComparison()
		cmp.VersionMismatch = true

		assert.Contains(t, RenderComparison(cmp, 0, 0), "different calculation versions")
	})
}

func TestRenderLevers(t *testing.T) {
	t.Run("lists levers with suggestions", func(t *testing.T) {
		levers := greenops.Levers(testutil.Breakdown(testutil.Kg{Vehicle: 4000, Diet: 2000}))
		result := RenderLevers("Gas car", levers, 0)

		assert.Contains(t, result, "Biggest levers for Gas car")
		assert.Contains(t, result, "1. Vehicle")
		assert.Contains(t, result, "4,000 kg (67%)")
		assert.Contains(t, result, "Drive fewer miles")
	})

	t.Run("handles empty footprint", func(t *testing.T) {
		assert.Contains(t, RenderLevers("x", nil, 0), "nothing to suggest")
	})
}

func TestRenderTrend(t *testing.T) {
	t.Run("renders one bar per point", func(t *testing.T) {
		now := testutil.FixedClock().Now()
		points := session.Trend([]session.Snapshot{
			testutil.Snapshot("second", now, testutil.Input(0, 0), testutil.Kg{Diet: 1000}),
			testutil.Snapshot("first", now.Add(-time.Hour), testutil.Input(0, 0), testutil.Kg{Diet: 2000}),
		})

		result := RenderTrend(points)
		lines := strings.Split(strings.TrimRight(result, "\n"), "\n")

		assert.Len(t, lines, 2)
		assert.Contains(t, lines[0], "first")
		assert.Contains(t, lines[0], "2.00 t")
		assert.Contains(t, lines[0], strings.Repeat("█", trendBarWidth))
		assert.Contains(t, lines[1], "1.00 t")
	})

	t.Run("handles empty history", func(t *testing.T) {
		assert.Contains(t, RenderTrend(nil), "No snapshots yet")
	})
}

func TestRenderSnapshotDetail(t *testing.T) {
	snap := testutil.Snapshot("snap-1", testutil.FixedClock().Now(), testutil.Input(0, 0), testutil.Kg{Diet: 2100, Heating: 900})
	snap.Note = "after moving"
	snap.Tags = []string{"home", "2024"}

	result := RenderSnapshotDetail(snap, Marks{Baseline: true}, 0)

	assert.Contains(t, result, "snap-1")
	assert.Contains(t, result, "after moving")
	assert.Contains(t, result, "home, 2024")
	assert.Contains(t, result, "baseline")
	assert.Contains(t, result, "3,000 kg")
	assert.Contains(t, result, "3.00 metric tons")
	assert.Contains(t, result, "electricity not provided, heating not provided")

	kwh := 450.0
	bill := 120.0
	snap.Request.Electricity.MonthlyKwh = &kwh
	snap.Request.Heating.MonthlyCostUSD = &bill
	result = RenderSnapshotDetail(snap, Marks{}, 0)
	assert.Contains(t, result, "electricity metered, heating from monthly bill")
}

func TestMarks(t *testing.T) {
	state := session.State{
		BaselineID: testutil.Ptr("a"),
		ScenarioID: testutil.Ptr("b"),
	}
	assert.Equal(t, "B ", MarksFor(state, "a").String())
	assert.Equal(t, " S", MarksFor(state, "b").String())
	assert.Equal(t, "  ", MarksFor(state, "c").String())
}

func TestTruncateAndShortID(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "01HQ3ZK8X9", ShortID("01HQ3ZK8X9ABCDEFGHJKMNPQRS"))
	assert.Equal(t, "abc", ShortID("abc"))
}
