package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is a sellable product assembled from components. Cost and Price are
// derived: cost is the component cost sum, price adds the labor charge and
// rounds up. TimeActual stays zero until the recipe has been made once; while
// it is zero the price carries an estimation margin.
type Recipe struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"uniqueIndex;not null"`
	TimeEstimate decimal.Decimal `json:"time_estimate" gorm:"type:decimal(7,3);not null"`
	TimeActual   decimal.Decimal `json:"time_actual" gorm:"type:decimal(7,3);default:0"`
	Cost         decimal.Decimal `json:"cost" gorm:"type:decimal(9,2);default:0"`
	Price        int64           `json:"price" gorm:"default:0"`
	ImagePath    string          `json:"image_path"`
	Notes        string          `json:"notes"`
	Components   []Component     `json:"components" gorm:"many2many:recipe_components"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
