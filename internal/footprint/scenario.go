package footprint

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidTweak is returned for a scenario adjustment outside its range.
var ErrInvalidTweak = errors.New("invalid scenario adjustment")

// FlightBucket is the coarse yearly flight count offered by the scenario
// builder. Every bucket maps to short-haul flights only.
type FlightBucket string

// Flight buckets.
const (
	FlightsNone FlightBucket = "0"
	FlightsFew  FlightBucket = "1-2"
	FlightsSome FlightBucket = "3-5"
	FlightsMany FlightBucket = "6+"
)

// FlightBuckets returns the buckets in ascending order.
func FlightBuckets() []FlightBucket {
	return []FlightBucket{FlightsNone, FlightsFew, FlightsSome, FlightsMany}
}

// ParseFlightBucket parses one of "0", "1-2", "3-5" or "6+".
func ParseFlightBucket(s string) (FlightBucket, error) {
	for _, b := range FlightBuckets() {
		if strings.TrimSpace(s) == string(b) {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: flights must be one of 0, 1-2, 3-5, 6+, got %q", ErrInvalidTweak, s)
}

// Flights returns the flight counts the bucket stands for.
func (b FlightBucket) Flights() FlightInput {
	switch b {
	case FlightsFew:
		return FlightInput{ShortHaulCount: 1}
	case FlightsSome:
		return FlightInput{ShortHaulCount: 3}
	case FlightsMany:
		return FlightInput{ShortHaulCount: 6}
	default:
		return FlightInput{}
	}
}

// ParseDiet parses a diet tier (case-insensitive).
func ParseDiet(s string) (DietType, error) {
	for _, d := range []DietType{DietVegan, DietVegetarian, DietLowMeat, DietHighMeat} {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: diet must be vegan, vegetarian, low_meat or high_meat, got %q", ErrInvalidTweak, s)
}

// ParseConsumption parses a consumption tier (case-insensitive).
func ParseConsumption(s string) (ConsumptionLevel, error) {
	for _, c := range []ConsumptionLevel{ConsumptionMinimal, ConsumptionAverage, ConsumptionHigh} {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: consumption must be minimal, average or high, got %q", ErrInvalidTweak, s)
}

// ScenarioDraft returns the request a scenario starts from: the base
// request with an unset diet read as low_meat and an unset consumption
// level read as average. Everything else is kept as recorded.
func ScenarioDraft(base CalculationInput) CalculationInput {
	out := base
	if out.Diet == "" {
		out.Diet = DietLowMeat
	}
	if out.Consumption == "" {
		out.Consumption = ConsumptionAverage
	}
	return out
}

// ScenarioTweaks are the adjustments applied on top of a scenario draft.
// Nil fields leave the draft unchanged.
type ScenarioTweaks struct {
	AnnualMiles *float64
	// RenewablePercent is 0 to 100.
	RenewablePercent *float64
	Flights          *FlightBucket
	Diet             *DietType
	Consumption      *ConsumptionLevel
}

// Validate reports the first adjustment outside its range.
func (t ScenarioTweaks) Validate() error {
	if t.AnnualMiles != nil {
		if m := *t.AnnualMiles; math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
			return fmt.Errorf("%w: annual miles must be zero or more, got %v", ErrInvalidTweak, m)
		}
	}
	if t.RenewablePercent != nil {
		if p := *t.RenewablePercent; math.IsNaN(p) || p < 0 || p > 100 {
			return fmt.Errorf("%w: renewable share must be between 0 and 100, got %v", ErrInvalidTweak, p)
		}
	}
	return nil
}

// Apply returns in with the adjustments applied. Other vehicle, flight and
// electricity details in the draft are kept.
func (t ScenarioTweaks) Apply(in CalculationInput) CalculationInput {
	out := in
	if t.AnnualMiles != nil {
		out.Vehicle.AnnualMiles = *t.AnnualMiles
	}
	if t.RenewablePercent != nil {
		out.Electricity.RenewableFraction = *t.RenewablePercent / 100
	}
	if t.Flights != nil {
		out.Flights = t.Flights.Flights()
	}
	if t.Diet != nil {
		out.Diet = *t.Diet
	}
	if t.Consumption != nil {
		out.Consumption = *t.Consumption
	}
	return out
}
