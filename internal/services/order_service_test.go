package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstclair/bakery-backoffice/internal/models"
)

// createBread builds a recipe over the given component with a two-hour
// estimate (cost 0.25, price 27 when the component is standard dough).
func createBread(t *testing.T, svc RecipeService, componentID uint) models.Recipe {
	t.Helper()
	recipe, err := svc.CreateRecipe(RecipeInput{
		Name:         "Bread",
		ComponentIDs: []uint{componentID},
		TimeEstimate: "2",
	})
	require.NoError(t, err)
	return recipe
}

func TestCreateOrderMergesLinesAndQuotes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, testLogger())

	flour := createFlour(t, db)
	dough := createDough(t, db, flour)
	recipe := createBread(t, NewRecipeService(db, testLogger()), dough.ID)

	order, err := svc.CreateOrder(OrderInput{
		Customer:     "Sam",
		DeliveryDate: deliveryDate(7),
		Items: []OrderLineInput{
			{RecipeID: recipe.ID, Quantity: 2},
			{RecipeID: recipe.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	// Duplicate recipe lines collapse into one.
	require.Len(t, order.Items, 1)
	assert.EqualValues(t, 3, order.Items[0].Quantity)

	// 3 x 27 = 81, rounded up to the next multiple of five.
	assert.EqualValues(t, 85, order.QuotedPrice)
	// 30% of 81 beats the 0.75 ingredient cost; ceil then round to five.
	assert.EqualValues(t, 25, order.Deposit)
	assert.False(t, order.DepositPaid)
}

func TestCreateOrderWithDelivery(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, testLogger())

	flour := createFlour(t, db)
	dough := createDough(t, db, flour)
	recipe := createBread(t, NewRecipeService(db, testLogger()), dough.ID)

	order, err := svc.CreateOrder(OrderInput{
		Customer:         "Sam",
		DeliveryDate:     deliveryDate(7),
		RequiresDelivery: true,
		Items:            []OrderLineInput{{RecipeID: recipe.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	// The surcharge lands after rounding and never moves the deposit.
	assert.EqualValues(t, 100, order.QuotedPrice)
	assert.EqualValues(t, 25, order.Deposit)
}

func TestCreateOrderValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, testLogger())

	flour := createFlour(t, db)
	dough := createDough(t, db, flour)
	recipe := createBread(t, NewRecipeService(db, testLogger()), dough.ID)

	t.Run("no lines", func(t *testing.T) {
		_, err := svc.CreateOrder(OrderInput{
			Customer: "Sam", DeliveryDate: deliveryDate(7),
		})
		assert.ErrorIs(t, err, ErrNoLines)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := svc.CreateOrder(OrderInput{
			Customer: "Sam", DeliveryDate: deliveryDate(7),
			Items: []OrderLineInput{{RecipeID: recipe.ID, Quantity: 0}},
		})
		assert.ErrorIs(t, err, ErrBadQuantity)
	})

	t.Run("unknown recipe", func(t *testing.T) {
		_, err := svc.CreateOrder(OrderInput{
			Customer: "Sam", DeliveryDate: deliveryDate(7),
			Items: []OrderLineInput{{RecipeID: 999, Quantity: 1}},
		})
		assert.Error(t, err)
	})
}

func TestMarkDepositPaidFreezesDeposit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, testLogger())

	flour := createFlour(t, db)
	dough := createDough(t, db, flour)
	recipe := createBread(t, NewRecipeService(db, testLogger()), dough.ID)

	order, err := svc.CreateOrder(OrderInput{
		Customer:     "Sam",
		DeliveryDate: deliveryDate(7),
		Items:        []OrderLineInput{{RecipeID: recipe.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 25, order.Deposit)

	order, err = svc.MarkDepositPaid(order.ID)
	require.NoError(t, err)
	assert.True(t, order.DepositPaid)

	// Growing the order requotes but keeps the paid deposit.
	updated, err := svc.UpdateOrder(order.ID, OrderInput{
		Customer:     "Sam",
		DeliveryDate: deliveryDate(7),
		Items:        []OrderLineInput{{RecipeID: recipe.ID, Quantity: 6}},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 165, updated.QuotedPrice)
	assert.EqualValues(t, 25, updated.Deposit)
	assert.True(t, updated.DepositPaid)
}

func TestListUpcomingOrders(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, testLogger())

	flour := createFlour(t, db)
	dough := createDough(t, db, flour)
	recipe := createBread(t, NewRecipeService(db, testLogger()), dough.ID)

	_, err := svc.CreateOrder(OrderInput{
		Customer:     "Past",
		DeliveryDate: deliveryDate(-7),
		Items:        []OrderLineInput{{RecipeID: recipe.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.CreateOrder(OrderInput{
		Customer:     "Future",
		DeliveryDate: deliveryDate(7),
		Items:        []OrderLineInput{{RecipeID: recipe.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	upcoming, err := svc.ListUpcomingOrders()
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Future", upcoming[0].Customer)

	all, err := svc.ListOrders()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRecordPaymentAndPostmortem(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, testLogger())

	flour := createFlour(t, db)
	dough := createDough(t, db, flour)
	recipe := createBread(t, NewRecipeService(db, testLogger()), dough.ID)

	order, err := svc.CreateOrder(OrderInput{
		Customer:     "Sam",
		DeliveryDate: deliveryDate(1),
		Items:        []OrderLineInput{{RecipeID: recipe.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.RecordPayment(order.ID, -5)
	assert.Error(t, err)

	// The amount actually paid may differ from the quote.
	paid, err := svc.RecordPayment(order.ID, 28)
	require.NoError(t, err)
	assert.EqualValues(t, 28, paid.PricePaid)

	done, err := svc.CompletePostmortem(order.ID)
	require.NoError(t, err)
	assert.True(t, done.PostmortemComplete)
}

func TestDeleteOrderRemovesItems(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, testLogger())

	flour := createFlour(t, db)
	dough := createDough(t, db, flour)
	recipe := createBread(t, NewRecipeService(db, testLogger()), dough.ID)

	order, err := svc.CreateOrder(OrderInput{
		Customer:     "Sam",
		DeliveryDate: deliveryDate(1),
		Items:        []OrderLineInput{{RecipeID: recipe.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(order.ID))

	var count int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
