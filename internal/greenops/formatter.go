package greenops

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the locale-aware message printer for number formatting.
// Uses English locale for consistent thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats a float with the specified precision and thousand separators.
// Example: FormatFloat(1234.567, 2) returns "1,234.57".
func FormatFloat(f float64, precision int) string {
	rounded := roundTo(f, precision)
	if precision <= 0 {
		return FormatNumber(int64(rounded))
	}
	return printer.Sprintf(fmt.Sprintf("%%.%df", precision), rounded)
}

// FormatSignedKg formats a kilogram change with an explicit "+" for
// increases, rounded to whole kilograms. Example: "+400 kg", "-1,000 kg".
func FormatSignedKg(kg float64) string {
	rounded := math.Round(kg)
	if rounded > 0 {
		return "+" + FormatNumber(int64(rounded)) + " kg"
	}
	// Avoid printing "-0".
	if rounded == 0 {
		return "0 kg"
	}
	return FormatNumber(int64(rounded)) + " kg"
}

// FormatLarge formats large numbers with abbreviated notation.
//
// Values below LargeNumberThreshold (1 million) use comma-separated format.
// Values at or above LargeNumberThreshold use "~X.X million" format.
// Values at or above BillionThreshold use "~X.X billion" format.
//
// Example: FormatLarge(1500000000) returns "~1.5 billion".
func FormatLarge(n float64) string {
	if n >= BillionThreshold {
		return fmt.Sprintf("~%.1f billion", n/BillionThreshold)
	}
	if n >= LargeNumberThreshold {
		return fmt.Sprintf("~%.1f million", n/LargeNumberThreshold)
	}
	return FormatNumber(int64(math.Round(n)))
}

// roundTo rounds half away from zero, so roundTo(-x) == -roundTo(x).
func roundTo(v float64, precision int) float64 {
	if precision <= 0 {
		return math.Round(v)
	}
	m := math.Pow(10, float64(precision))
	return math.Round(v*m) / m
}
