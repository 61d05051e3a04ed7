package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mstclair/bakery-backoffice/internal/costing"
	"github.com/mstclair/bakery-backoffice/internal/models"
)

// OrderLineInput is one (recipe, quantity) line of an order. Lines naming
// the same recipe are merged by summing quantities.
type OrderLineInput struct {
	RecipeID uint  `json:"recipe_id" binding:"required"`
	Quantity int64 `json:"quantity" binding:"required"`
}

// OrderInput carries the fields of an order create or update.
type OrderInput struct {
	Customer         string           `json:"customer" binding:"required"`
	DeliveryDate     time.Time        `json:"delivery_date" binding:"required"`
	RequiresDelivery bool             `json:"requires_delivery"`
	Notes            string           `json:"notes"`
	Items            []OrderLineInput `json:"items"`
}

// OrderService manages customer orders and their derived quoted price and
// deposit.
type OrderService interface {
	ListOrders() ([]models.Order, error)
	// ListUpcomingOrders returns orders due today or later, soonest first.
	ListUpcomingOrders() ([]models.Order, error)
	GetOrderByID(id uint) (models.Order, error)
	CreateOrder(in OrderInput) (models.Order, error)
	// UpdateOrder replaces the line items wholesale and requotes. A deposit
	// already paid keeps its amount.
	UpdateOrder(id uint, in OrderInput) (models.Order, error)
	// MarkDepositPaid freezes the deposit at its current amount.
	MarkDepositPaid(id uint) (models.Order, error)
	// RecordPayment stores what the customer actually paid, which may differ
	// from the quote.
	RecordPayment(id uint, pricePaid int64) (models.Order, error)
	// CompletePostmortem marks the after-delivery review done.
	CompletePostmortem(id uint) (models.Order, error)
	DeleteOrder(id uint) error
}

type orderService struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(db *gorm.DB, log *logrus.Logger) OrderService {
	return &orderService{db: db, log: log}
}

func (s *orderService) ListOrders() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items.Recipe").Order("delivery_date").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) ListUpcomingOrders() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items.Recipe").
		Where("delivery_date >= ?", startOfToday()).
		Order("delivery_date").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetOrderByID(id uint) (models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items.Recipe").First(&order, id).Error; err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *orderService) CreateOrder(in OrderInput) (models.Order, error) {
	order, items, err := s.build(in, models.Order{})
	if err != nil {
		return models.Order{}, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return tx.Omit(clause.Associations).Create(&items).Error
	})
	if err != nil {
		return models.Order{}, err
	}

	s.log.WithFields(logrus.Fields{
		"order": order.ID, "customer": order.Customer,
		"quoted_price": order.QuotedPrice, "deposit": order.Deposit,
	}).Info("Order created")
	return s.GetOrderByID(order.ID)
}

func (s *orderService) UpdateOrder(id uint, in OrderInput) (models.Order, error) {
	var existing models.Order
	if err := s.db.First(&existing, id).Error; err != nil {
		return models.Order{}, err
	}

	order, items, err := s.build(in, existing)
	if err != nil {
		return models.Order{}, err
	}
	order.ID = id
	order.CreatedAt = existing.CreatedAt

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = id
		}
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(&order).Error
	})
	if err != nil {
		return models.Order{}, err
	}

	s.log.WithFields(logrus.Fields{
		"order": id, "quoted_price": order.QuotedPrice, "deposit": order.Deposit,
	}).Info("Order updated")
	return s.GetOrderByID(id)
}

func (s *orderService) MarkDepositPaid(id uint) (models.Order, error) {
	order, err := s.GetOrderByID(id)
	if err != nil {
		return models.Order{}, err
	}
	if order.DepositPaid {
		return order, nil
	}
	err = s.db.Model(&models.Order{}).Where("id = ?", id).
		Update("deposit_paid", true).Error
	if err != nil {
		return models.Order{}, err
	}
	order.DepositPaid = true
	s.log.WithFields(logrus.Fields{"order": id, "deposit": order.Deposit}).
		Info("Deposit marked paid")
	return order, nil
}

func (s *orderService) RecordPayment(id uint, pricePaid int64) (models.Order, error) {
	if pricePaid < 0 {
		return models.Order{}, ErrNegativeCost
	}
	order, err := s.GetOrderByID(id)
	if err != nil {
		return models.Order{}, err
	}
	err = s.db.Model(&models.Order{}).Where("id = ?", id).
		Update("price_paid", pricePaid).Error
	if err != nil {
		return models.Order{}, err
	}
	order.PricePaid = pricePaid
	s.log.WithFields(logrus.Fields{"order": id, "price_paid": pricePaid}).
		Info("Payment recorded")
	return order, nil
}

func (s *orderService) CompletePostmortem(id uint) (models.Order, error) {
	order, err := s.GetOrderByID(id)
	if err != nil {
		return models.Order{}, err
	}
	err = s.db.Model(&models.Order{}).Where("id = ?", id).
		Update("postmortem_complete", true).Error
	if err != nil {
		return models.Order{}, err
	}
	order.PostmortemComplete = true
	return order, nil
}

func (s *orderService) DeleteOrder(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
}

// build validates the input, merges duplicate recipe lines, and assembles
// the order with its derived totals. prev carries the paid-deposit state
// that must survive a requote.
func (s *orderService) build(in OrderInput, prev models.Order) (models.Order, []models.OrderItem, error) {
	if len(in.Items) == 0 {
		return models.Order{}, nil, ErrNoLines
	}

	merged := make(map[uint]int64, len(in.Items))
	recipeOrder := make([]uint, 0, len(in.Items))
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return models.Order{}, nil, ErrBadQuantity
		}
		if _, ok := merged[line.RecipeID]; !ok {
			recipeOrder = append(recipeOrder, line.RecipeID)
		}
		merged[line.RecipeID] += line.Quantity
	}

	items := make([]models.OrderItem, 0, len(merged))
	lines := make([]costing.OrderLine, 0, len(merged))
	for _, recipeID := range recipeOrder {
		var recipe models.Recipe
		if err := s.db.First(&recipe, recipeID).Error; err != nil {
			return models.Order{}, nil, err
		}
		items = append(items, models.OrderItem{
			RecipeID: recipe.ID,
			Quantity: merged[recipeID],
			Recipe:   recipe,
		})
		lines = append(lines, costing.OrderLine{
			Price:    recipe.Price,
			Cost:     recipe.Cost,
			Quantity: merged[recipeID],
		})
	}

	quoted, deposit := costing.OrderTotals(lines, in.RequiresDelivery,
		prev.DepositPaid, prev.Deposit)

	return models.Order{
		Customer:           in.Customer,
		DeliveryDate:       in.DeliveryDate,
		RequiresDelivery:   in.RequiresDelivery,
		QuotedPrice:        quoted,
		Deposit:            deposit,
		DepositPaid:        prev.DepositPaid,
		PricePaid:          prev.PricePaid,
		PostmortemComplete: prev.PostmortemComplete,
		Notes:              in.Notes,
	}, items, nil
}
