package testutil

import (
	"time"

	"github.com/rshade/greenr/internal/footprint"
	"github.com/rshade/greenr/internal/session"
)

// Kg lists per-category kilograms in canonical order.
type Kg struct {
	Electricity float64
	Heating     float64
	Vehicle     float64
	Flights     float64
	Diet        float64
	Consumption float64
}

// Breakdown builds a breakdown whose totals match the category sum.
func Breakdown(kg Kg) footprint.Breakdown {
	b := footprint.Breakdown{
		ElectricityKg: kg.Electricity,
		HeatingKg:     kg.Heating,
		VehicleKg:     kg.Vehicle,
		FlightsKg:     kg.Flights,
		DietKg:        kg.Diet,
		ConsumptionKg: kg.Consumption,
	}
	b.TotalKg = b.CategorySum()
	b.TotalMetricTons = b.TotalKg / 1000
	return b
}

// Result wraps a breakdown in a version 1.0 calculation result.
func Result(kg Kg) footprint.CalculationResult {
	return footprint.CalculationResult{
		CalculationVersion: "1.0",
		Breakdown:          Breakdown(kg),
		Warnings:           []footprint.Warning{},
	}
}

// Input returns a request with the activity quantities the equivalents use.
func Input(annualMiles float64, shortHaul int) footprint.CalculationInput {
	in := footprint.DefaultDraft()
	in.Vehicle.AnnualMiles = annualMiles
	in.Vehicle.VehicleType = footprint.VehicleGasoline
	in.Flights.ShortHaulCount = shortHaul
	return in
}

// Snapshot builds a snapshot directly, bypassing the repository.
func Snapshot(id string, created time.Time, in footprint.CalculationInput, kg Kg) session.Snapshot {
	return session.Snapshot{
		ID:        id,
		Label:     id,
		CreatedAt: created,
		Request:   in,
		Response:  Result(kg),
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
