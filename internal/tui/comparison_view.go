package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/greenr/internal/footprint"
	"github.com/rshade/greenr/internal/greenops"
	"github.com/rshade/greenr/internal/session"
)

// Column widths for the category table.
const (
	categoryColWidth = 14
	kgColWidth       = 14
	separatorWidth   = 60
	trendBarWidth    = 30
	minTruncateLen   = 3
	shortIDLen       = 10
	trendPrecision   = 2
)

const dateLayout = "2006-01-02 15:04"

// FormatKg formats kilograms with the given number of decimals.
func FormatKg(kg float64, precision int) string {
	return greenops.FormatFloat(kg, precision) + " kg"
}

// RenderDelta renders a styled kilogram change with sign and directional arrow.
//
//   - "+" prefix and ↑ for increases (warning color)
//   - ↓ for reductions (OK color)
//   - → when the change rounds to zero (muted color)
func RenderDelta(kg float64, precision int) string {
	rounded := roundTo(kg, precision)

	var icon, sign string
	var color lipgloss.Color

	switch {
	case rounded > 0:
		icon = IconArrowUp
		sign = "+"
		color = ColorWarning
	case rounded < 0:
		icon = IconArrowDown
		color = ColorOK
	default:
		icon = IconArrowRight
		color = ColorMuted
		rounded = 0
	}

	style := lipgloss.NewStyle().Foreground(color).Bold(true)
	return style.Render(fmt.Sprintf("%s%s %s", sign, FormatKg(rounded, precision), icon))
}

func roundTo(v float64, precision int) float64 {
	m := math.Pow(10, float64(precision))
	return math.Round(v*m) / m
}

// RenderComparison renders a full baseline versus scenario comparison.
func RenderComparison(cmp greenops.Comparison, precision, width int) string {
	var sb strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorHeader).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)
	sb.WriteString(titleStyle.Render("Scenario Comparison"))
	sb.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue).Bold(true)

	sb.WriteString(labelStyle.Render("Baseline:  "))
	sb.WriteString(valueStyle.Render(fmt.Sprintf("%s  %s", cmp.BaselineLabel, FormatKg(cmp.BaselineTotalKg, precision))))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("Scenario:  "))
	sb.WriteString(valueStyle.Render(fmt.Sprintf("%s  %s", cmp.ScenarioLabel, FormatKg(cmp.ScenarioTotalKg, precision))))
	sb.WriteString("\n\n")

	sb.WriteString(labelStyle.Render("Change:    "))
	sb.WriteString(RenderDelta(cmp.TotalDeltaKg, precision))
	sb.WriteString(labelStyle.Render(fmt.Sprintf(" (%+d%%, %s)", cmp.PercentChange, cmp.Direction)))
	sb.WriteString("\n")
	if ranked := cmp.RankedDeltas(); len(ranked) > 0 && ranked[0].DeltaKg != 0 {
		sb.WriteString(labelStyle.Render("Largest:   "))
		sb.WriteString(valueStyle.Render(ranked[0].Category.Title()))
		sb.WriteString(" ")
		sb.WriteString(RenderDelta(ranked[0].DeltaKg, precision))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(renderCategoryTable(cmp.Categories, precision))
	sb.WriteString("\n")
	sb.WriteString(renderExplanations(cmp))

	if cmp.VersionMismatch {
		noteStyle := lipgloss.NewStyle().Foreground(ColorWarning).Italic(true)
		sb.WriteString("\n")
		sb.WriteString(noteStyle.Render(
			"Note: these snapshots were produced by different calculation versions; deltas may reflect methodology changes."))
		sb.WriteString("\n")
	}

	if width > 0 {
		return lipgloss.NewStyle().MaxWidth(width).Render(sb.String())
	}
	return sb.String()
}

func renderCategoryTable(deltas []greenops.CategoryDelta, precision int) string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue)

	sb.WriteString(headerStyle.Render("By category:"))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-*s %*s %*s  %s",
		categoryColWidth, "Category", kgColWidth, "Baseline", kgColWidth, "Scenario", "Δ")))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", separatorWidth))
	sb.WriteString("\n")

	for _, d := range deltas {
		sb.WriteString("  ")
		sb.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", categoryColWidth, d.Category.Title())))
		sb.WriteString(" ")
		sb.WriteString(valueStyle.Render(fmt.Sprintf("%*s %*s",
			kgColWidth, FormatKg(d.BaselineKg, precision),
			kgColWidth, FormatKg(d.ScenarioKg, precision))))
		sb.WriteString("  ")
		sb.WriteString(RenderDelta(d.DeltaKg, precision))
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderExplanations(cmp greenops.Comparison) string {
	headerStyle := lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	muted := lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Impact equivalents:"))
	sb.WriteString("\n")

	if !cmp.Significant {
		sb.WriteString(muted.Render(fmt.Sprintf(
			"  Change is under %.0f kg CO2e; no equivalents shown.", greenops.MinEquivalencyThresholdKg)))
		sb.WriteString("\n")
		return sb.String()
	}

	titleStyle := lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	for _, item := range cmp.Explanations() {
		sb.WriteString("  ")
		sb.WriteString(titleStyle.Render(item.Title))
		sb.WriteString("\n    ")
		sb.WriteString(item.Body)
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderLevers renders the largest categories with suggestions.
func RenderLevers(label string, levers []greenops.Lever, precision int) string {
	headerStyle := lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	titleStyle := lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	muted := lipgloss.NewStyle().Foreground(ColorMuted)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Biggest levers for " + label))
	sb.WriteString("\n")
	if len(levers) == 0 {
		sb.WriteString(muted.Italic(true).Render("  No emissions recorded; nothing to suggest."))
		sb.WriteString("\n")
		return sb.String()
	}

	for i, lv := range levers {
		sb.WriteString(fmt.Sprintf("\n%d. %s  %s (%d%%)\n", i+1,
			titleStyle.Render(lv.Category.Title()), FormatKg(lv.Kg, precision), lv.SharePercent))
		for _, s := range lv.Suggestions {
			sb.WriteString("   - ")
			sb.WriteString(titleStyle.Render(s.Title))
			sb.WriteString(": ")
			sb.WriteString(muted.Render(s.Body))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RenderTrend renders totals over time as horizontal bars, oldest first.
func RenderTrend(points []session.TrendPoint) string {
	muted := lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	if len(points) == 0 {
		return muted.Render("No snapshots yet.") + "\n"
	}

	maxTons := 0.0
	for _, p := range points {
		maxTons = math.Max(maxTons, p.TotalTons)
	}

	barStyle := lipgloss.NewStyle().Foreground(ColorOK)
	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel)

	var sb strings.Builder
	for _, p := range points {
		n := 0
		if maxTons > 0 {
			n = int(math.Round(p.TotalTons / maxTons * trendBarWidth))
		}
		sb.WriteString(labelStyle.Render(p.CreatedAt.Local().Format(dateLayout)))
		sb.WriteString("  ")
		sb.WriteString(barStyle.Render(fmt.Sprintf("%-*s", trendBarWidth, strings.Repeat("█", n))))
		sb.WriteString("  ")
		sb.WriteString(greenops.FormatFloat(p.TotalTons, trendPrecision) + " t")
		sb.WriteString("  ")
		sb.WriteString(truncate(p.Label, separatorWidth/2))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Marks describes whether a snapshot is the current baseline or scenario.
type Marks struct {
	Baseline bool
	Scenario bool
}

// MarksFor returns the pointer marks of id in state.
func MarksFor(state session.State, id string) Marks {
	return Marks{
		Baseline: state.BaselineID != nil && *state.BaselineID == id,
		Scenario: state.ScenarioID != nil && *state.ScenarioID == id,
	}
}

func (mk Marks) String() string {
	b, s := " ", " "
	if mk.Baseline {
		b = IconBaseline
	}
	if mk.Scenario {
		s = IconScenario
	}
	return b + s
}

// RenderSnapshotDetail renders one snapshot with its breakdown.
func RenderSnapshotDetail(snap session.Snapshot, marks Marks, precision int) string {
	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	headerStyle := lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)

	field := func(sb *strings.Builder, name, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("%-10s ", name+":")))
		sb.WriteString(valueStyle.Render(value))
		sb.WriteString("\n")
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(snap.Label))
	sb.WriteString("\n")
	field(&sb, "ID", snap.ID)
	field(&sb, "Created", snap.CreatedAt.Local().Format(time.RFC1123))
	if snap.Note != "" {
		field(&sb, "Note", snap.Note)
	}
	if len(snap.Tags) > 0 {
		field(&sb, "Tags", strings.Join(snap.Tags, ", "))
	}
	var roles []string
	if marks.Baseline {
		roles = append(roles, "baseline")
	}
	if marks.Scenario {
		roles = append(roles, "scenario")
	}
	if len(roles) > 0 {
		field(&sb, "Role", strings.Join(roles, ", "))
	}
	if v := snap.Response.CalculationVersion; v != "" {
		field(&sb, "Version", v)
	}
	field(&sb, "Energy", fmt.Sprintf("electricity %s, heating %s",
		entryModeText(snap.Request.Electricity.EntryMode()),
		entryModeText(snap.Request.Heating.EntryMode())))

	sb.WriteString("\n")
	b := snap.Response.Breakdown
	for _, cat := range footprint.Categories() {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-*s", categoryColWidth, cat.Title())))
		sb.WriteString(fmt.Sprintf("%*s\n", kgColWidth, FormatKg(b.Kg(cat), precision)))
	}
	sb.WriteString(strings.Repeat("-", categoryColWidth+kgColWidth+2))
	sb.WriteString("\n")
	sb.WriteString(valueStyle.Render(fmt.Sprintf("  %-*s%*s", categoryColWidth, "Total", kgColWidth, FormatKg(b.TotalKg, precision))))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render(fmt.Sprintf("  %.2f metric tons CO2e / year", b.TotalMetricTons)))
	sb.WriteString("\n")

	for _, w := range snap.Response.Warnings {
		sb.WriteString(lipgloss.NewStyle().Foreground(ColorWarning).Render("  ! " + w.Message))
		sb.WriteString("\n")
	}
	return sb.String()
}

// entryModeText describes how an energy quantity was supplied.
func entryModeText(m footprint.EntryMode) string {
	switch m {
	case footprint.EntryAbsolute:
		return "metered"
	case footprint.EntryMonthlyCost:
		return "from monthly bill"
	default:
		return "not provided"
	}
}

// truncate shortens s to maxLen runes with an ellipsis.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= minTruncateLen {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-minTruncateLen]) + "..."
}

// ShortID returns a display prefix of a snapshot id.
func ShortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}
