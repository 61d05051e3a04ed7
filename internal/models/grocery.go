package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mstclair/bakery-backoffice/internal/units"
)

// Grocery is a purchased item used by components. UnitCost is derived from
// the purchase price: cost per cup for volume purchases, cost per item for
// count purchases. It is recomputed from Cost/CostAmount/Units on every
// write and never edited directly.
type Grocery struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Name       string          `json:"name" gorm:"uniqueIndex;not null"`
	Cost       decimal.Decimal `json:"cost" gorm:"type:decimal(7,2);not null"`
	CostAmount decimal.Decimal `json:"cost_amount" gorm:"type:decimal(9,3);not null"`
	Units      units.Unit      `json:"units" gorm:"size:4;not null"`
	// DefaultUnits is the unit pre-selected when this grocery is added to a
	// component. It is count if and only if Units is count.
	DefaultUnits units.Unit      `json:"default_units" gorm:"size:4;not null"`
	UnitCost     decimal.Decimal `json:"unit_cost" gorm:"type:decimal(14,6);default:0"`
	// Hash identifies this grocery in generated page elements. Derived from
	// the name; always starts with a letter.
	Hash      string    `json:"hash" gorm:"size:33"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Grocery) TableName() string {
	return "groceries"
}
