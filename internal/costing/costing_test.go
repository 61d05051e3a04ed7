package costing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstclair/bakery-backoffice/internal/models"
	"github.com/mstclair/bakery-backoffice/internal/units"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestUnitCost(t *testing.T) {
	testCases := []struct {
		name       string
		cost       string
		costAmount string
		unit       units.Unit
		want       string
	}{
		// A dozen eggs for 1.50 costs 0.125 per egg.
		{name: "count", cost: "1.50", costAmount: "12", unit: units.Count, want: "0.125"},
		// 2 pinches of saffron for 5: (5/2) / (1/384) = 960 per cup.
		{name: "pinch", cost: "5", costAmount: "2", unit: units.Pinch, want: "960"},
		{name: "teaspoon", cost: "8.98", costAmount: "12", unit: units.Teaspoon, want: "35.92"},
		{name: "tablespoon", cost: "8.98", costAmount: "4", unit: units.Tablespoon, want: "35.92"},
		{name: "fluid ounce", cost: "8.98", costAmount: "2", unit: units.FluidOunce, want: "35.92"},
		// 2.49/9 per cup, rounded at the stored six places.
		{name: "cup", cost: "2.49", costAmount: "9", unit: units.Cup, want: "0.276667"},
		{name: "pint", cost: "1.12", costAmount: "1", unit: units.Pint, want: "0.56"},
		{name: "quart", cost: "1.12", costAmount: "0.5", unit: units.Quart, want: "0.56"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnitCost(d(tt.cost), d(tt.costAmount), tt.unit)
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got), "UnitCost = %s, want %s", got, tt.want)
		})
	}
}

func TestUnitCostZeroAmountFails(t *testing.T) {
	for _, u := range units.All() {
		_, err := UnitCost(d("1.50"), decimal.Zero, u)
		assert.ErrorIs(t, err, ErrZeroCostAmount, "unit %s", u)
	}
}

func TestUnitCostScaleLinear(t *testing.T) {
	base, err := UnitCost(d("3.20"), d("4"), units.Teaspoon)
	require.NoError(t, err)

	doubledCost, err := UnitCost(d("6.40"), d("4"), units.Teaspoon)
	require.NoError(t, err)
	assert.True(t, base.Mul(decimal.NewFromInt(2)).Equal(doubledCost))

	doubledAmount, err := UnitCost(d("3.20"), d("8"), units.Teaspoon)
	require.NoError(t, err)
	assert.True(t, base.Div(decimal.NewFromInt(2)).Equal(doubledAmount))
}

func TestUnitCostIdempotent(t *testing.T) {
	first, err := UnitCost(d("2.49"), d("9"), units.Cup)
	require.NoError(t, err)
	second, err := UnitCost(d("2.49"), d("9"), units.Cup)
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestNameHash(t *testing.T) {
	h := NameHash("Sugar, Granulated")
	assert.Len(t, h, 33)
	assert.Equal(t, byte('a'), h[0])
	assert.Equal(t, h, NameHash("Sugar, Granulated"))
	assert.NotEqual(t, h, NameHash("Sugar, Powdered"))
}

func ing(name string, groceryUnits units.Unit, unitCost string, ingUnits units.Unit, amount string) models.Ingredient {
	return models.Ingredient{
		Units:  ingUnits,
		Amount: d(amount),
		Grocery: models.Grocery{
			Name:     name,
			Units:    groceryUnits,
			UnitCost: d(unitCost),
		},
	}
}

func TestComponentCost(t *testing.T) {
	ingredients := []models.Ingredient{
		// 2 tsp of a 960-per-cup grocery: 960/48 * 2 = 40.
		ing("Saffron", units.Pinch, "960", units.Teaspoon, "2"),
		// 3 eggs at 0.125 each.
		ing("Egg", units.Count, "0.125", units.Count, "3"),
		// Half a cup at 0.56 per cup.
		ing("Milk", units.Pint, "0.56", units.Cup, "0.5"),
	}

	cost, err := ComponentCost(ingredients)
	require.NoError(t, err)
	assert.True(t, d("40.66").Equal(cost), "cost = %s", cost)
}

func TestComponentCostOrderInvariant(t *testing.T) {
	a := ing("Saffron", units.Pinch, "960", units.Teaspoon, "2")
	b := ing("Egg", units.Count, "0.125", units.Count, "3")
	c := ing("Milk", units.Pint, "0.56", units.Cup, "0.5")

	forward, err := ComponentCost([]models.Ingredient{a, b, c})
	require.NoError(t, err)
	backward, err := ComponentCost([]models.Ingredient{c, b, a})
	require.NoError(t, err)
	assert.True(t, forward.Equal(backward))
}

func TestComponentCostEmpty(t *testing.T) {
	cost, err := ComponentCost(nil)
	require.NoError(t, err)
	assert.True(t, cost.IsZero())
}

func TestComponentCostRejectsUnitMismatch(t *testing.T) {
	// A count grocery measured by volume.
	_, err := ComponentCost([]models.Ingredient{
		ing("Egg", units.Count, "0.125", units.Cup, "1"),
	})
	assert.ErrorIs(t, err, ErrUnitPairing)

	// A volume grocery counted out.
	_, err = ComponentCost([]models.Ingredient{
		ing("Milk", units.Pint, "0.56", units.Count, "2"),
	})
	assert.ErrorIs(t, err, ErrUnitPairing)
}

func TestRecipeCost(t *testing.T) {
	components := []models.Component{
		{Cost: d("7.25")},
		{Cost: d("4.75")},
	}
	assert.True(t, d("12.00").Equal(RecipeCost(components)))
	assert.True(t, RecipeCost(nil).IsZero())
}

func TestRecipePrice(t *testing.T) {
	testCases := []struct {
		name         string
		cost         string
		timeEstimate string
		timeActual   string
		want         int64
	}{
		// Never made: 12.00 + 1h at the padded rate 13 = 25.
		{name: "unverified estimate", cost: "12.00", timeEstimate: "1", timeActual: "0", want: 25},
		// Made before: 12.00 + 1h at the plain rate 10 = 22.
		{name: "verified estimate", cost: "12.00", timeEstimate: "1", timeActual: "1", want: 22},
		// Fractional subtotal always rounds up.
		{name: "rounds up", cost: "10.01", timeEstimate: "0.5", timeActual: "2", want: 16},
		{name: "exact subtotal", cost: "10.00", timeEstimate: "1", timeActual: "1", want: 20},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := RecipePrice(d(tt.cost), d(tt.timeEstimate), d(tt.timeActual))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderTotals(t *testing.T) {
	lines := []OrderLine{
		{Price: 22, Cost: d("4.00"), Quantity: 1},
		{Price: 25, Cost: d("3.00"), Quantity: 2},
	}

	// 22 + 50 = 72, rounded up to 75.
	quoted, _ := OrderTotals(lines, false, false, 0)
	assert.Equal(t, int64(75), quoted)

	// The delivery surcharge lands after the rounding step.
	quoted, _ = OrderTotals(lines, true, false, 0)
	assert.Equal(t, int64(90), quoted)
}

func TestOrderDeposit(t *testing.T) {
	// Accumulated recipe cost 10, total 72: 30% of 72 = 21.6 beats the cost,
	// ceiling 22, up to the next multiple of five = 25.
	lines := []OrderLine{
		{Price: 22, Cost: d("4.00"), Quantity: 1},
		{Price: 25, Cost: d("3.00"), Quantity: 2},
	}
	_, deposit := OrderTotals(lines, false, false, 0)
	assert.Equal(t, int64(25), deposit)

	// The deposit comes from the pre-delivery total; delivery must not move it.
	_, deposit = OrderTotals(lines, true, false, 0)
	assert.Equal(t, int64(25), deposit)
}

func TestOrderDepositCostFloor(t *testing.T) {
	// Ingredient cost above 30% of total becomes the floor.
	lines := []OrderLine{
		{Price: 22, Cost: d("18.50"), Quantity: 2},
	}
	// total 44, 30% = 13.2; cost sum 37.00 wins: ceil 37 -> 40.
	_, deposit := OrderTotals(lines, false, false, 0)
	assert.Equal(t, int64(40), deposit)
}

func TestOrderDepositFrozenOncePaid(t *testing.T) {
	lines := []OrderLine{
		{Price: 100, Cost: d("60.00"), Quantity: 1},
	}
	quoted, deposit := OrderTotals(lines, false, true, 35)
	assert.Equal(t, int64(100), quoted)
	assert.Equal(t, int64(35), deposit)
}

func TestOrderTotalsIdempotent(t *testing.T) {
	lines := []OrderLine{
		{Price: 22, Cost: d("4.00"), Quantity: 1},
		{Price: 25, Cost: d("3.00"), Quantity: 2},
	}
	q1, d1 := OrderTotals(lines, true, false, 0)
	q2, d2 := OrderTotals(lines, true, false, 0)
	assert.Equal(t, q1, q2)
	assert.Equal(t, d1, d2)
}

func TestOrderTotalsEmpty(t *testing.T) {
	quoted, deposit := OrderTotals(nil, false, false, 0)
	assert.Zero(t, quoted)
	assert.Zero(t, deposit)
}
