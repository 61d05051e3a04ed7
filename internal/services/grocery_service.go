package services

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mstclair/bakery-backoffice/internal/costing"
	"github.com/mstclair/bakery-backoffice/internal/models"
	"github.com/mstclair/bakery-backoffice/internal/units"
)

// GroceryInput carries the validated fields of a grocery create or update.
type GroceryInput struct {
	Name         string          `json:"name" binding:"required"`
	Cost         decimal.Decimal `json:"cost"`
	CostAmount   decimal.Decimal `json:"cost_amount"`
	Units        units.Unit      `json:"units" binding:"required"`
	DefaultUnits units.Unit      `json:"default_units"`
}

// GroceryService manages purchased groceries and keeps their derived unit
// cost and hash current.
type GroceryService interface {
	ListGroceries() ([]models.Grocery, error)
	GetGroceryByID(id uint) (models.Grocery, error)
	CreateGrocery(in GroceryInput) (models.Grocery, error)
	// UpdateGrocery rewrites the grocery and re-derives every component,
	// recipe, and upcoming order that depends on it.
	UpdateGrocery(id uint, in GroceryInput) (models.Grocery, error)
	// DeleteGrocery fails with ErrGroceryInUse while any component
	// references the grocery.
	DeleteGrocery(id uint) error
}

type groceryService struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewGroceryService creates a new instance of GroceryService.
func NewGroceryService(db *gorm.DB, log *logrus.Logger) GroceryService {
	return &groceryService{db: db, log: log}
}

func (s *groceryService) ListGroceries() ([]models.Grocery, error) {
	var groceries []models.Grocery
	if err := s.db.Order("name").Find(&groceries).Error; err != nil {
		return nil, err
	}
	return groceries, nil
}

func (s *groceryService) GetGroceryByID(id uint) (models.Grocery, error) {
	var grocery models.Grocery
	if err := s.db.First(&grocery, id).Error; err != nil {
		return models.Grocery{}, err
	}
	return grocery, nil
}

func (s *groceryService) CreateGrocery(in GroceryInput) (models.Grocery, error) {
	grocery, err := s.build(in, 0)
	if err != nil {
		return models.Grocery{}, err
	}
	if err := s.db.Create(&grocery).Error; err != nil {
		return models.Grocery{}, err
	}
	s.log.WithFields(logrus.Fields{"grocery": grocery.Name, "unit_cost": grocery.UnitCost}).
		Info("Grocery created")
	return grocery, nil
}

func (s *groceryService) UpdateGrocery(id uint, in GroceryInput) (models.Grocery, error) {
	var existing models.Grocery
	if err := s.db.First(&existing, id).Error; err != nil {
		return models.Grocery{}, err
	}

	grocery, err := s.build(in, id)
	if err != nil {
		return models.Grocery{}, err
	}
	grocery.ID = id
	grocery.CreatedAt = existing.CreatedAt

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&grocery).Error; err != nil {
			return err
		}
		return NewPropagator(tx, s.log).AfterGroceryChange(id)
	})
	if err != nil {
		return models.Grocery{}, err
	}

	s.log.WithFields(logrus.Fields{"grocery": grocery.Name, "unit_cost": grocery.UnitCost}).
		Info("Grocery updated")
	return grocery, nil
}

func (s *groceryService) DeleteGrocery(id uint) error {
	var refs int64
	if err := s.db.Model(&models.Ingredient{}).Where("grocery_id = ?", id).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return ErrGroceryInUse
	}
	return s.db.Delete(&models.Grocery{}, id).Error
}

// build validates the input and assembles a grocery with its derived fields
// computed. selfID excludes the grocery itself from the uniqueness check.
func (s *groceryService) build(in GroceryInput, selfID uint) (models.Grocery, error) {
	if in.Cost.IsNegative() {
		return models.Grocery{}, ErrNegativeCost
	}
	if !in.CostAmount.IsPositive() {
		return models.Grocery{}, ErrNonPositiveAmount
	}
	if !units.Valid(in.Units) {
		return models.Grocery{}, ErrUnknownUnits
	}

	// A counted grocery is always measured by count; a volume grocery never is.
	defaultUnits := in.DefaultUnits
	if in.Units == units.Count {
		defaultUnits = units.Count
	} else {
		if !units.Valid(defaultUnits) {
			return models.Grocery{}, ErrUnknownUnits
		}
		if defaultUnits == units.Count {
			return models.Grocery{}, ErrCountDefaultUnits
		}
	}

	if err := s.checkNameFree(in.Name, selfID); err != nil {
		return models.Grocery{}, err
	}

	unitCost, err := costing.UnitCost(in.Cost, in.CostAmount, in.Units)
	if err != nil {
		return models.Grocery{}, err
	}

	return models.Grocery{
		Name:         in.Name,
		Cost:         in.Cost,
		CostAmount:   in.CostAmount,
		Units:        in.Units,
		DefaultUnits: defaultUnits,
		UnitCost:     unitCost,
		Hash:         costing.NameHash(in.Name),
	}, nil
}

func (s *groceryService) checkNameFree(name string, selfID uint) error {
	query := s.db.Model(&models.Grocery{}).Where("LOWER(name) = LOWER(?)", name)
	if selfID != 0 {
		query = query.Where("id <> ?", selfID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateName
	}
	return nil
}
