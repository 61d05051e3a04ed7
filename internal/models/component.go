package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mstclair/bakery-backoffice/internal/units"
)

// Component types. Informational only; never used in cost math.
const (
	ComponentBaked      = "B"
	ComponentIcing      = "I"
	ComponentDecoration = "D"
	ComponentOther      = "O"
)

// Component is a reusable part of a recipe (a sponge, an icing, a sugar
// flower). Cost is derived from the ingredient list and each linked
// grocery's unit cost.
type Component struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Name          string          `json:"name" gorm:"uniqueIndex;not null"`
	ComponentType string          `json:"component_type" gorm:"size:1;not null"`
	Cost          decimal.Decimal `json:"cost" gorm:"type:decimal(9,2);default:0"`
	Notes         string          `json:"notes"`
	Ingredients   []Ingredient    `json:"ingredients" gorm:"foreignKey:ComponentID"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Ingredient links a grocery to a component with the amount and unit this
// component measures it in. Rows are replaced wholesale when a component's
// ingredient list is edited; they are never meaningful on their own.
type Ingredient struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	GroceryID   uint            `json:"grocery_id" gorm:"index;not null"`
	ComponentID uint            `json:"component_id" gorm:"index;not null"`
	Units       units.Unit      `json:"units" gorm:"size:4;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(9,3);not null"`
	Grocery     Grocery         `json:"grocery" gorm:"foreignKey:GroceryID"`
}

// ValidComponentType reports whether t is one of the defined component types.
func ValidComponentType(t string) bool {
	switch t {
	case ComponentBaked, ComponentIcing, ComponentDecoration, ComponentOther:
		return true
	}
	return false
}
