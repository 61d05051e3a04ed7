package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstclair/bakery-backoffice/internal/models"
	"github.com/mstclair/bakery-backoffice/internal/quantity"
	"github.com/mstclair/bakery-backoffice/internal/units"
)

func TestCreateComponentDerivesCost(t *testing.T) {
	db := setupTestDB(t)
	svc := NewComponentService(db, testLogger())

	flour := createFlour(t, db)
	eggs := createEggs(t, db)

	component, err := svc.CreateComponent(ComponentInput{
		Name:          "Batter",
		ComponentType: models.ComponentBaked,
		Ingredients: []IngredientInput{
			{GroceryID: flour.ID, Units: units.Cup, Amount: "2"},
			{GroceryID: eggs.ID, Units: units.Count, Amount: "3"},
		},
	})
	require.NoError(t, err)

	// 2 cups flour at 0.125/cup plus 3 eggs at 0.25 each.
	assert.True(t, dec("1").Equal(component.Cost), "got %s", component.Cost)
	assert.Len(t, component.Ingredients, 2)
	assert.Equal(t, "Flour", component.Ingredients[0].Grocery.Name)
}

func TestCreateComponentParsesQuantityText(t *testing.T) {
	db := setupTestDB(t)
	svc := NewComponentService(db, testLogger())

	flour := createFlour(t, db)

	component, err := svc.CreateComponent(ComponentInput{
		Name:          "Thin Dough",
		ComponentType: models.ComponentBaked,
		Ingredients: []IngredientInput{
			{GroceryID: flour.ID, Units: units.Cup, Amount: "2 1/2"},
		},
	})
	require.NoError(t, err)

	assert.True(t, dec("2.5").Equal(component.Ingredients[0].Amount))
	// 2.5 cups at 0.125/cup, rounded to cents.
	assert.True(t, dec("0.31").Equal(component.Cost), "got %s", component.Cost)
}

func TestCreateComponentValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewComponentService(db, testLogger())

	flour := createFlour(t, db)
	eggs := createEggs(t, db)

	t.Run("unknown type", func(t *testing.T) {
		_, err := svc.CreateComponent(ComponentInput{
			Name: "X", ComponentType: "Z",
			Ingredients: []IngredientInput{{GroceryID: flour.ID, Units: units.Cup, Amount: "1"}},
		})
		assert.ErrorIs(t, err, ErrUnknownType)
	})

	t.Run("no ingredients", func(t *testing.T) {
		_, err := svc.CreateComponent(ComponentInput{
			Name: "X", ComponentType: models.ComponentIcing,
		})
		assert.ErrorIs(t, err, ErrNoIngredients)
	})

	t.Run("volume measurement of a counted grocery", func(t *testing.T) {
		_, err := svc.CreateComponent(ComponentInput{
			Name: "X", ComponentType: models.ComponentIcing,
			Ingredients: []IngredientInput{{GroceryID: eggs.ID, Units: units.Cup, Amount: "1"}},
		})
		assert.ErrorIs(t, err, ErrUnitMismatch)
	})

	t.Run("count measurement of a volume grocery", func(t *testing.T) {
		_, err := svc.CreateComponent(ComponentInput{
			Name: "X", ComponentType: models.ComponentIcing,
			Ingredients: []IngredientInput{{GroceryID: flour.ID, Units: units.Count, Amount: "1"}},
		})
		assert.ErrorIs(t, err, ErrUnitMismatch)
	})

	t.Run("unparseable amount", func(t *testing.T) {
		_, err := svc.CreateComponent(ComponentInput{
			Name: "X", ComponentType: models.ComponentIcing,
			Ingredients: []IngredientInput{{GroceryID: flour.ID, Units: units.Cup, Amount: "1.2.3"}},
		})
		assert.ErrorIs(t, err, quantity.ErrExtraDot)
	})

	t.Run("zero amount", func(t *testing.T) {
		_, err := svc.CreateComponent(ComponentInput{
			Name: "X", ComponentType: models.ComponentIcing,
			Ingredients: []IngredientInput{{GroceryID: flour.ID, Units: units.Cup, Amount: "0"}},
		})
		assert.ErrorIs(t, err, ErrNonPositiveAmount)
	})
}

func TestUpdateComponentReplacesIngredients(t *testing.T) {
	db := setupTestDB(t)
	svc := NewComponentService(db, testLogger())

	flour := createFlour(t, db)
	eggs := createEggs(t, db)
	component := createDough(t, db, flour)

	updated, err := svc.UpdateComponent(component.ID, ComponentInput{
		Name:          "Dough",
		ComponentType: models.ComponentBaked,
		Ingredients: []IngredientInput{
			{GroceryID: eggs.ID, Units: units.Count, Amount: "4"},
		},
	})
	require.NoError(t, err)

	assert.Len(t, updated.Ingredients, 1)
	assert.Equal(t, eggs.ID, updated.Ingredients[0].GroceryID)
	assert.True(t, dec("1").Equal(updated.Cost), "got %s", updated.Cost)

	// The old rows are gone, not orphaned.
	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteComponentGuardedByRecipes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewComponentService(db, testLogger())
	recipes := NewRecipeService(db, testLogger())

	flour := createFlour(t, db)
	component := createDough(t, db, flour)

	_, err := recipes.CreateRecipe(RecipeInput{
		Name:         "Bread",
		ComponentIDs: []uint{component.ID},
		TimeEstimate: "1",
	})
	require.NoError(t, err)

	err = svc.DeleteComponent(component.ID)
	assert.ErrorIs(t, err, ErrComponentInUse)
}

func TestDeleteComponentRemovesIngredients(t *testing.T) {
	db := setupTestDB(t)
	svc := NewComponentService(db, testLogger())

	flour := createFlour(t, db)
	component := createDough(t, db, flour)

	require.NoError(t, svc.DeleteComponent(component.ID))

	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
