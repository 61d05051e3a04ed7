package models

import (
	"time"
)

// Order is the top level of the hierarchy: one or more recipes promised to a
// customer for a delivery date. QuotedPrice and Deposit are derived from the
// referenced recipes' current price and cost; once the deposit is paid it is
// frozen and survives later recipe changes.
type Order struct {
	ID                 uint        `json:"id" gorm:"primaryKey"`
	Customer           string      `json:"customer" gorm:"not null"`
	DeliveryDate       time.Time   `json:"delivery_date" gorm:"index;not null"`
	RequiresDelivery   bool        `json:"requires_delivery" gorm:"default:false"`
	QuotedPrice        int64       `json:"quoted_price" gorm:"default:0"`
	Deposit            int64       `json:"deposit" gorm:"default:0"`
	DepositPaid        bool        `json:"deposit_paid" gorm:"default:false"`
	PricePaid          int64       `json:"price_paid" gorm:"default:0"`
	PostmortemComplete bool        `json:"postmortem_complete" gorm:"default:false"`
	Notes              string      `json:"notes"`
	Items              []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// OrderItem records how many of one recipe an order includes, so the same
// recipe can appear in an order with a count instead of duplicate rows.
type OrderItem struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	OrderID  uint   `json:"order_id" gorm:"index;not null"`
	RecipeID uint   `json:"recipe_id" gorm:"index;not null"`
	Quantity int64  `json:"quantity" gorm:"not null;default:1"`
	Recipe   Recipe `json:"recipe" gorm:"foreignKey:RecipeID"`
}
