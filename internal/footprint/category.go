// Package footprint defines the request and result shapes exchanged with the
// external footprint calculator.
package footprint

import (
	"fmt"
	"strings"
)

// Category is one of the six fixed emission categories.
type Category int

const (
	// Electricity is household electricity use.
	Electricity Category = iota
	// Heating is household heating fuel.
	Heating
	// Vehicle is personal vehicle travel.
	Vehicle
	// Flights is air travel.
	Flights
	// Diet is food.
	Diet
	// Consumption is goods and services.
	Consumption
)

// Categories returns all categories in canonical order.
func Categories() []Category {
	return []Category{Electricity, Heating, Vehicle, Flights, Diet, Consumption}
}

// String returns the wire key of the category.
func (c Category) String() string {
	switch c {
	case Electricity:
		return "electricity"
	case Heating:
		return "heating"
	case Vehicle:
		return "vehicle"
	case Flights:
		return "flights"
	case Diet:
		return "diet"
	case Consumption:
		return "consumption"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Title returns the display name of the category.
func (c Category) Title() string {
	switch c {
	case Electricity:
		return "Electricity"
	case Heating:
		return "Heating"
	case Vehicle:
		return "Vehicle"
	case Flights:
		return "Flights"
	case Diet:
		return "Diet"
	case Consumption:
		return "Consumption"
	default:
		return c.String()
	}
}

// ParseCategory parses a wire key (case-insensitive).
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(strings.TrimSpace(s), c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
