// Package units holds the measurement units a grocery can be purchased or
// consumed in, and exact conversion factors between the volume units.
//
// Every volume unit is an integer number of pinches, so any factor between
// two volume units is an exact rational. Conversions are performed on
// *big.Rat values; repeated conversions never accumulate rounding error.
// The count unit is disjoint from the volumes and never converts.
package units

import (
	"errors"
	"fmt"
	"math/big"
)

// Unit is the short code stored in the database and exchanged over the API.
type Unit string

const (
	Count      Unit = "ct"
	Pinch      Unit = "p"
	Teaspoon   Unit = "tsp"
	Tablespoon Unit = "tbsp"
	FluidOunce Unit = "floz"
	Cup        Unit = "C"
	Pint       Unit = "pt"
	Quart      Unit = "qt"
)

// ErrCountConversion is returned when a conversion involves the count unit.
// Upstream validation keeps count and volume measurements apart, so hitting
// this is a data-integrity failure rather than a user error.
var ErrCountConversion = errors.New("units: cannot convert between count and a volume unit")

// ErrUnknownUnit is returned for a unit code outside the supported set.
var ErrUnknownUnit = errors.New("units: unknown unit")

// pinchesPer sizes each volume unit in pinches, the smallest supported unit.
var pinchesPer = map[Unit]int64{
	Pinch:      1,
	Teaspoon:   8,
	Tablespoon: 24,
	FluidOunce: 48,
	Cup:        384,
	Pint:       768,
	Quart:      1536,
}

var displayNames = map[Unit]string{
	Count:      "Count",
	Pinch:      "Pinch",
	Teaspoon:   "Teaspoon",
	Tablespoon: "Tablespoon",
	FluidOunce: "Fluid Ounce",
	Cup:        "Cup",
	Pint:       "Pint",
	Quart:      "Quart",
}

// All lists every supported unit in ascending volume order, count first.
func All() []Unit {
	return []Unit{Count, Pinch, Teaspoon, Tablespoon, FluidOunce, Cup, Pint, Quart}
}

// Volumes lists the volume units in ascending order.
func Volumes() []Unit {
	return []Unit{Pinch, Teaspoon, Tablespoon, FluidOunce, Cup, Pint, Quart}
}

// Valid reports whether u is a supported unit code.
func Valid(u Unit) bool {
	_, ok := displayNames[u]
	return ok
}

// IsVolume reports whether u is a volume unit.
func IsVolume(u Unit) bool {
	_, ok := pinchesPer[u]
	return ok
}

// DisplayName returns the human-readable name for u, or the raw code if
// u is not a supported unit.
func (u Unit) DisplayName() string {
	if name, ok := displayNames[u]; ok {
		return name
	}
	return string(u)
}

// Factor returns the exact multiplier f such that
//
//	targetAmount = sourceAmount * f
//
// for amounts measured in from and to respectively. Both units must be
// volume units; any pairing with Count fails with ErrCountConversion.
func Factor(from, to Unit) (*big.Rat, error) {
	if from == Count || to == Count {
		return nil, fmt.Errorf("%w: %s -> %s", ErrCountConversion, from, to)
	}
	fp, ok := pinchesPer[from]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, from)
	}
	tp, ok := pinchesPer[to]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, to)
	}
	return big.NewRat(fp, tp), nil
}

// Convert re-expresses amount, measured in from, as an amount in to.
// The result is exact.
func Convert(amount *big.Rat, from, to Unit) (*big.Rat, error) {
	f, err := Factor(from, to)
	if err != nil {
		return nil, err
	}
	return new(big.Rat).Mul(amount, f), nil
}
