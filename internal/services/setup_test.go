package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mstclair/bakery-backoffice/internal/models"
	"github.com/mstclair/bakery-backoffice/internal/units"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Grocery{},
		&models.Component{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.Order{},
		&models.OrderItem{},
	)
	require.NoError(t, err)

	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

// createFlour stores a volume grocery priced at 2.00 for 4 quarts, which
// normalizes to 0.125 per cup.
func createFlour(t *testing.T, db *gorm.DB) models.Grocery {
	svc := NewGroceryService(db, testLogger())
	grocery, err := svc.CreateGrocery(GroceryInput{
		Name:         "Flour",
		Cost:         dec("2"),
		CostAmount:   dec("4"),
		Units:        units.Quart,
		DefaultUnits: units.Cup,
	})
	require.NoError(t, err)
	return grocery
}

// createEggs stores a count grocery priced at 3.00 per dozen.
func createEggs(t *testing.T, db *gorm.DB) models.Grocery {
	svc := NewGroceryService(db, testLogger())
	grocery, err := svc.CreateGrocery(GroceryInput{
		Name:       "Eggs",
		Cost:       dec("3"),
		CostAmount: dec("12"),
		Units:      units.Count,
	})
	require.NoError(t, err)
	return grocery
}

func createDough(t *testing.T, db *gorm.DB, flour models.Grocery) models.Component {
	svc := NewComponentService(db, testLogger())
	component, err := svc.CreateComponent(ComponentInput{
		Name:          "Dough",
		ComponentType: models.ComponentBaked,
		Ingredients: []IngredientInput{
			{GroceryID: flour.ID, Units: units.Cup, Amount: "2"},
		},
	})
	require.NoError(t, err)
	return component
}

func deliveryDate(daysFromNow int) time.Time {
	return time.Now().AddDate(0, 0, daysFromNow)
}
