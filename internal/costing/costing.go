// Package costing derives every stored money value in the system: a
// grocery's normalized unit cost, a component's ingredient cost, a recipe's
// cost and sale price, and an order's quoted price and deposit.
//
// All functions are pure: they read already-loaded values, compute the whole
// result, and return it. Nothing here touches the database, so a failed
// calculation can never leave an entity half-updated.
//
// Internally the math runs on exact rationals (math/big) and is rounded to a
// decimal only at the published precision of each derived field: unit costs
// to six places, component and recipe costs to two. Prices and deposits are
// whole currency units.
package costing

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/mstclair/bakery-backoffice/internal/models"
	"github.com/mstclair/bakery-backoffice/internal/units"
)

const (
	// unitCostPlaces is the stored precision of Grocery.UnitCost.
	unitCostPlaces = 6
	// costPlaces is the stored precision of component and recipe costs.
	costPlaces = 2

	// hourlyRate is the labor charge per hour of recipe work.
	hourlyRate = 10
	// deliverySurcharge is the flat fee added when an order is delivered.
	deliverySurcharge = 15
	// priceStep is the granularity quoted prices and deposits round up to.
	priceStep = 5
)

// estimateMargin pads the hourly rate by 30% for recipes that have never
// been made, since first-time estimates run low.
var estimateMargin = decimal.NewFromFloat(1.3)

// depositRate is the minimum share of the order total held as deposit.
var depositRate = decimal.NewFromFloat(0.3)

// ErrZeroCostAmount is returned when a unit cost is requested for a grocery
// purchased in a quantity of zero. Callers validate this before saving; the
// calculator re-asserts it so a bad row can never divide by zero.
var ErrZeroCostAmount = errors.New("costing: cost amount is zero")

// ErrUnitPairing is returned when a count-based grocery is measured in a
// volume unit or vice versa. Form validation keeps such rows out of the
// database, so this indicates corrupted data, not user error.
var ErrUnitPairing = errors.New("costing: count grocery paired with volume measurement")

// UnitCost normalizes a purchase price to a cost per cup, or per item when
// the purchase unit is count. cost is what was paid, costAmount how much was
// bought, unit the purchase unit.
func UnitCost(cost, costAmount decimal.Decimal, unit units.Unit) (decimal.Decimal, error) {
	if costAmount.IsZero() {
		return decimal.Zero, ErrZeroCostAmount
	}

	perUnit := new(big.Rat).Quo(cost.Rat(), costAmount.Rat())
	if unit == units.Count {
		return decimal.NewFromBigRat(perUnit, unitCostPlaces), nil
	}

	// perUnit / (cups per unit) = cost per cup.
	cupsPerUnit, err := units.Factor(unit, units.Cup)
	if err != nil {
		return decimal.Zero, err
	}
	perCup := perUnit.Quo(perUnit, cupsPerUnit)
	return decimal.NewFromBigRat(perCup, unitCostPlaces), nil
}

// NameHash returns a stable identifier for a grocery name. The digest is
// prefixed with a letter so it is usable as an HTML id or class.
func NameHash(name string) string {
	sum := md5.Sum([]byte(name))
	return "a" + hex.EncodeToString(sum[:])
}

// IngredientCost prices a single ingredient row from its amount and the
// linked grocery's unit cost. The grocery must be preloaded.
func IngredientCost(ing models.Ingredient) (*big.Rat, error) {
	amount := ing.Amount.Rat()
	unitCost := ing.Grocery.UnitCost.Rat()

	if ing.Units == units.Count {
		if ing.Grocery.Units != units.Count {
			return nil, fmt.Errorf("%w: grocery %q", ErrUnitPairing, ing.Grocery.Name)
		}
		return new(big.Rat).Mul(amount, unitCost), nil
	}
	if ing.Grocery.Units == units.Count {
		return nil, fmt.Errorf("%w: grocery %q", ErrUnitPairing, ing.Grocery.Name)
	}

	// Rescale the per-cup cost to the unit this recipe measures in.
	cupsToUnits, err := units.Factor(units.Cup, ing.Units)
	if err != nil {
		return nil, err
	}
	perMeasure := new(big.Rat).Quo(unitCost, cupsToUnits)
	return perMeasure.Mul(amount, perMeasure), nil
}

// ComponentCost sums the cost of every ingredient row of a component.
// Each ingredient's grocery must be preloaded.
func ComponentCost(ingredients []models.Ingredient) (decimal.Decimal, error) {
	total := new(big.Rat)
	for _, ing := range ingredients {
		c, err := IngredientCost(ing)
		if err != nil {
			return decimal.Zero, err
		}
		total.Add(total, c)
	}
	return decimal.NewFromBigRat(total, costPlaces), nil
}

// RecipeCost sums the already-derived costs of a recipe's components.
func RecipeCost(components []models.Component) decimal.Decimal {
	total := decimal.Zero
	for _, comp := range components {
		total = total.Add(comp.Cost)
	}
	return total
}

// RecipePrice computes the sale price from a recipe's ingredient cost and
// time estimate. When the recipe has been made before (timeActual nonzero)
// the plain hourly rate applies; otherwise the rate carries a 30% margin
// against an optimistic estimate. The subtotal always rounds up so
// fractional costs are never undercharged.
func RecipePrice(cost, timeEstimate, timeActual decimal.Decimal) int64 {
	rate := decimal.NewFromInt(hourlyRate)
	if timeActual.IsZero() {
		rate = rate.Mul(estimateMargin)
	}
	subtotal := cost.Add(timeEstimate.Mul(rate))
	return subtotal.Ceil().IntPart()
}

// OrderLine is one (recipe, quantity) pair of an order, carrying the
// recipe's current derived price and cost.
type OrderLine struct {
	Price    int64
	Cost     decimal.Decimal
	Quantity int64
}

// OrderTotals computes an order's quoted price and deposit.
//
// The quoted price is the line total rounded up to the nearest multiple of
// five, plus the flat delivery surcharge when the order is delivered. The
// surcharge lands after the rounding step on purpose: delivery is a pass-
// through fee, not part of the negotiated bakery price.
//
// The deposit floor is the larger of the accumulated ingredient cost and 30%
// of the pre-delivery, pre-rounding total; it is then rounded up to a whole
// amount and again up to a multiple of five. A paid deposit is frozen:
// frozenDeposit is returned unchanged and never recomputed.
func OrderTotals(lines []OrderLine, requiresDelivery, depositPaid bool, frozenDeposit int64) (quoted, deposit int64) {
	var total int64
	costSum := decimal.Zero
	for _, line := range lines {
		total += line.Price * line.Quantity
		costSum = costSum.Add(line.Cost.Mul(decimal.NewFromInt(line.Quantity)))
	}

	quoted = roundUpToStep(total)
	if requiresDelivery {
		quoted += deliverySurcharge
	}

	if depositPaid {
		return quoted, frozenDeposit
	}

	floor := decimal.NewFromInt(total).Mul(depositRate)
	if costSum.GreaterThan(floor) {
		floor = costSum
	}
	deposit = roundUpToStep(floor.Ceil().IntPart())
	return quoted, deposit
}

func roundUpToStep(n int64) int64 {
	if rem := n % priceStep; rem != 0 {
		n += priceStep - rem
	}
	return n
}
