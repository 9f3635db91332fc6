package notebook

import (
	"fmt"
	"strings"
)

// Location is one of the fixed storage areas an item belongs to.
type Location string

const (
	Cupboard Location = "cupboard"
	Fridge   Location = "fridge"
	Freezer  Location = "freezer"
)

// Locations lists every location in display order.
var Locations = []Location{Cupboard, Fridge, Freezer}

// ParseLocation accepts a location name in any case, including the plural "cupboards".
func ParseLocation(s string) (Location, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cupboard", "cupboards":
		return Cupboard, nil
	case "fridge":
		return Fridge, nil
	case "freezer":
		return Freezer, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLocation, s)
	}
}

// Title returns the display label, e.g. "Cupboards".
func (l Location) Title() string {
	switch l {
	case Cupboard:
		return "Cupboards"
	case Fridge:
		return "Fridge"
	case Freezer:
		return "Freezer"
	default:
		return string(l)
	}
}
