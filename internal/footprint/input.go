package footprint

// Mode selects the questionnaire depth.
type Mode string

// Modes.
const (
	ModeQuick Mode = "quick"
	ModeFull  Mode = "full"
)

// DietType is the diet tier.
type DietType string

// Diet tiers.
const (
	DietVegan      DietType = "vegan"
	DietVegetarian DietType = "vegetarian"
	DietLowMeat    DietType = "low_meat"
	DietHighMeat   DietType = "high_meat"
)

// ConsumptionLevel is the consumption tier.
type ConsumptionLevel string

// Consumption tiers.
const (
	ConsumptionMinimal ConsumptionLevel = "minimal"
	ConsumptionAverage ConsumptionLevel = "average"
	ConsumptionHigh    ConsumptionLevel = "high"
)

// VehicleType is the drivetrain of the household vehicle.
type VehicleType string

// Vehicle types.
const (
	VehicleGasoline     VehicleType = "gasoline"
	VehicleHybrid       VehicleType = "hybrid"
	VehiclePlugInHybrid VehicleType = "plug_in_hybrid"
	VehicleElectric     VehicleType = "electric"
)

// EntryMode says how an energy quantity was provided.
type EntryMode string

// Entry modes.
const (
	EntryAbsolute    EntryMode = "absolute"
	EntryMonthlyCost EntryMode = "monthly_cost"
	EntryUnknown     EntryMode = "unknown"
)

// ElectricityInput describes electricity use.
type ElectricityInput struct {
	MonthlyKwh        *float64 `json:"monthly_kwh,omitempty"`
	MonthlyCostUSD    *float64 `json:"monthly_cost_usd,omitempty"`
	RenewableFraction float64  `json:"renewable_fraction,omitempty"`
}

// EntryMode reports which electricity quantity was supplied.
func (e ElectricityInput) EntryMode() EntryMode {
	return entryMode(e.MonthlyKwh, e.MonthlyCostUSD)
}

// HeatingInput describes heating fuel use.
type HeatingInput struct {
	MonthlyTherms  *float64 `json:"monthly_therms,omitempty"`
	MonthlyCostUSD *float64 `json:"monthly_cost_usd,omitempty"`
}

// EntryMode reports which heating quantity was supplied.
func (h HeatingInput) EntryMode() EntryMode {
	return entryMode(h.MonthlyTherms, h.MonthlyCostUSD)
}

func entryMode(absolute, cost *float64) EntryMode {
	switch {
	case absolute != nil:
		return EntryAbsolute
	case cost != nil:
		return EntryMonthlyCost
	default:
		return EntryUnknown
	}
}

// VehicleInput describes annual driving.
type VehicleInput struct {
	AnnualMiles float64     `json:"annual_miles"`
	VehicleType VehicleType `json:"vehicle_type,omitempty"`
	MPG         *float64    `json:"mpg,omitempty"`
}

// FlightInput counts flights per year by haul length.
type FlightInput struct {
	ShortHaulCount  int `json:"short_haul_count"`
	MediumHaulCount int `json:"medium_haul_count"`
	LongHaulCount   int `json:"long_haul_count"`
}

// WasteHabits records recycling and composting.
type WasteHabits struct {
	RecyclesRegularly bool `json:"recycles_regularly"`
	Composts          bool `json:"composts"`
}

// CalculationInput is the request sent to the calculator.
type CalculationInput struct {
	Mode          Mode             `json:"mode,omitempty"`
	HouseholdSize int              `json:"household_size,omitempty"`
	Electricity   ElectricityInput `json:"electricity"`
	Heating       HeatingInput     `json:"heating"`
	Vehicle       VehicleInput     `json:"vehicle"`
	Flights       FlightInput      `json:"flights"`
	Diet          DietType         `json:"diet,omitempty"`
	Consumption   ConsumptionLevel `json:"consumption,omitempty"`
	Waste         WasteHabits      `json:"waste"`
}

// DefaultDraft is the request draft of a fresh session.
func DefaultDraft() CalculationInput {
	return CalculationInput{Mode: ModeQuick, HouseholdSize: 1}
}
