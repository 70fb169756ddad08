package footprint

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownCategory is returned when a category key is not one of the six.
var ErrUnknownCategory = errors.New("unknown category")

// ErrInvalidBreakdown indicates a breakdown with negative or non-finite values.
var ErrInvalidBreakdown = errors.New("invalid breakdown")

// Breakdown is the per-category annual emissions in kg CO2e.
type Breakdown struct {
	ElectricityKg   float64 `json:"electricity_kg"`
	HeatingKg       float64 `json:"heating_kg"`
	VehicleKg       float64 `json:"vehicle_kg"`
	FlightsKg       float64 `json:"flights_kg"`
	DietKg          float64 `json:"diet_kg"`
	ConsumptionKg   float64 `json:"consumption_kg"`
	TotalKg         float64 `json:"total_kg"`
	TotalMetricTons float64 `json:"total_metric_tons"`
}

// Kg returns the value recorded for c.
func (b Breakdown) Kg(c Category) float64 {
	switch c {
	case Electricity:
		return b.ElectricityKg
	case Heating:
		return b.HeatingKg
	case Vehicle:
		return b.VehicleKg
	case Flights:
		return b.FlightsKg
	case Diet:
		return b.DietKg
	case Consumption:
		return b.ConsumptionKg
	default:
		return 0
	}
}

// CategorySum adds up the six category values. TotalKg is expected to match.
func (b Breakdown) CategorySum() float64 {
	var sum float64
	for _, c := range Categories() {
		sum += b.Kg(c)
	}
	return sum
}

// Validate reports negative or non-finite values.
func (b Breakdown) Validate() error {
	for _, c := range Categories() {
		if err := checkKg(c.String(), b.Kg(c)); err != nil {
			return err
		}
	}
	if err := checkKg("total", b.TotalKg); err != nil {
		return err
	}
	return checkKg("total_metric_tons", b.TotalMetricTons)
}

func checkKg(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is not finite", ErrInvalidBreakdown, field)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s is negative (%g)", ErrInvalidBreakdown, field, v)
	}
	return nil
}

// Warning is an advisory note attached to a result.
type Warning struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Field   *string `json:"field,omitempty"`
}

// CalculationResult is the opaque response of the external calculator.
type CalculationResult struct {
	CalculationVersion string    `json:"calculation_version"`
	Breakdown          Breakdown `json:"breakdown"`
	Warnings           []Warning `json:"warnings"`
}
