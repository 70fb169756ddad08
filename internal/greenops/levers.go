package greenops

import (
	"math"
	"sort"

	"github.com/rshade/greenr/internal/footprint"
)

// MaxLevers is the number of categories suggested by Levers.
const MaxLevers = 3

// Suggestion is a general action for reducing one category.
type Suggestion struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Lever is one of the largest categories of a footprint with suggestions.
type Lever struct {
	Category     footprint.Category `json:"category"`
	Kg           float64            `json:"kg"`
	SharePercent int                `json:"share_percent"`
	Suggestions  []Suggestion       `json:"suggestions"`
}

// leverOrder breaks ties between equal categories.
//
//nolint:gochecknoglobals // Fixed lookup order.
var leverOrder = []footprint.Category{
	footprint.Vehicle,
	footprint.Electricity,
	footprint.Heating,
	footprint.Diet,
	footprint.Consumption,
	footprint.Flights,
}

// highImpactKg is the per-category annual kg above which an extra,
// more targeted suggestion is offered.
//
//nolint:gochecknoglobals // Fixed lookup table.
var highImpactKg = map[footprint.Category]float64{
	footprint.Vehicle:     3500,
	footprint.Electricity: 2500,
	footprint.Heating:     2000,
	footprint.Diet:        3000,
	footprint.Consumption: 2200,
	footprint.Flights:     800,
}

// Levers returns up to MaxLevers categories with positive emissions, largest
// first, each with general suggestions.
func Levers(b footprint.Breakdown) []Lever {
	var levers []Lever
	for _, cat := range leverOrder {
		kg := b.Kg(cat)
		if kg <= 0 {
			continue
		}
		levers = append(levers, Lever{
			Category:     cat,
			Kg:           kg,
			SharePercent: share(kg, b.TotalKg),
			Suggestions:  suggestionsFor(cat, kg),
		})
	}
	sort.SliceStable(levers, func(i, j int) bool {
		return levers[i].Kg > levers[j].Kg
	})
	if len(levers) > MaxLevers {
		levers = levers[:MaxLevers]
	}
	return levers
}

func share(kg, total float64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(kg / total * 100))
}

func suggestionsFor(cat footprint.Category, kg float64) []Suggestion {
	var s []Suggestion
	var extra Suggestion

	switch cat {
	case footprint.Vehicle:
		s = []Suggestion{
			{Title: "Drive fewer miles", Body: "Combine errands, carpool now and then, or swap a couple of short weekly drives for walking, cycling or transit."},
			{Title: "Improve efficiency", Body: "Keep tires inflated, ease off hard acceleration and favour a high-MPG or hybrid model at the next purchase."},
		}
		extra = Suggestion{Title: "Check your mileage", Body: "Vehicle emissions are high. Confirm annual miles from a month of odometer readings times twelve."}
	case footprint.Electricity:
		s = []Suggestion{
			{Title: "Cut standby and lighting waste", Body: "Use smart power strips, switch off idle devices and move remaining bulbs to LEDs."},
			{Title: "Reduce big loads", Body: "Nudge the thermostat, run full laundry and dishwasher loads and air-dry when convenient."},
		}
		extra = Suggestion{Title: "Look for kWh spikes", Body: "Review the utility portal for seasonal peaks; cooling and space heaters are common causes."}
	case footprint.Heating:
		s = []Suggestion{
			{Title: "Seal and insulate", Body: "Weatherstrip doors and windows and close drafts; small fixes lower heating demand."},
			{Title: "Use a thermostat schedule", Body: "Lower the setpoint a couple of degrees and schedule it around the day."},
		}
		extra = Suggestion{Title: "Focus on hot water", Body: "Shorter showers, a lower water-heater setting and cold laundry cut gas use."}
	case footprint.Diet:
		s = []Suggestion{
			{Title: "Swap the highest-impact meals", Body: "Replacing one or two beef meals a week with chicken, fish or plant-based dishes lowers impact noticeably."},
			{Title: "Reduce food waste", Body: "Plan leftovers and freeze extras; wasted food carries production and disposal emissions."},
		}
		extra = Suggestion{Title: "Set a plant-forward goal", Body: "A target such as two plant-based dinners a week is easy to keep and adds up."}
	case footprint.Consumption:
		s = []Suggestion{
			{Title: "Buy less new, keep longer", Body: "Delay upgrades, repair where possible and prefer used or refurbished electronics and clothing."},
			{Title: "Prefer durable staples", Body: "Fewer, longer-lasting items usually beat frequent cheap replacements."},
		}
		extra = Suggestion{Title: "Pause non-essentials for 30 days", Body: "A short reset often lowers spending without feeling restrictive."}
	case footprint.Flights:
		s = []Suggestion{
			{Title: "Skip or replace one flight", Body: "Replacing one short flight with rail or driving, or dropping a discretionary trip, has an outsized effect."},
			{Title: "Bundle travel", Body: "Fewer, longer trips avoid takeoff-heavy emissions of many short hops."},
		}
		extra = Suggestion{Title: "Fly economy and nonstop", Body: "Per-passenger impact is lower with more seats per aircraft and fewer legs."}
	default:
		return nil
	}

	if kg > highImpactKg[cat] {
		s = append(s, extra)
	}
	return s
}
