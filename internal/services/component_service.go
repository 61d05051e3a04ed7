package services

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mstclair/bakery-backoffice/internal/costing"
	"github.com/mstclair/bakery-backoffice/internal/models"
	"github.com/mstclair/bakery-backoffice/internal/quantity"
	"github.com/mstclair/bakery-backoffice/internal/units"
)

// IngredientInput is one (grocery, amount, units) row of a component's
// ingredient list. Amount is the raw quantity text the user typed
// ("2 1/4", "0.5", "3/8").
type IngredientInput struct {
	GroceryID uint       `json:"grocery_id" binding:"required"`
	Units     units.Unit `json:"units" binding:"required"`
	Amount    string     `json:"amount" binding:"required"`
}

// ComponentInput carries the fields of a component create or update. The
// ingredient list always arrives whole; edits replace the previous list.
type ComponentInput struct {
	Name          string            `json:"name" binding:"required"`
	ComponentType string            `json:"component_type" binding:"required"`
	Notes         string            `json:"notes"`
	Ingredients   []IngredientInput `json:"ingredients"`
}

// ComponentService manages components and their ingredient lists, keeping
// the derived component cost current.
type ComponentService interface {
	ListComponents() ([]models.Component, error)
	GetComponentByID(id uint) (models.Component, error)
	CreateComponent(in ComponentInput) (models.Component, error)
	// UpdateComponent replaces the ingredient list wholesale and re-derives
	// every recipe and upcoming order that uses the component.
	UpdateComponent(id uint, in ComponentInput) (models.Component, error)
	// DeleteComponent fails with ErrComponentInUse while any recipe
	// references the component.
	DeleteComponent(id uint) error
}

type componentService struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewComponentService creates a new instance of ComponentService.
func NewComponentService(db *gorm.DB, log *logrus.Logger) ComponentService {
	return &componentService{db: db, log: log}
}

func (s *componentService) ListComponents() ([]models.Component, error) {
	var components []models.Component
	err := s.db.Preload("Ingredients.Grocery").Order("component_type").Find(&components).Error
	if err != nil {
		return nil, err
	}
	return components, nil
}

func (s *componentService) GetComponentByID(id uint) (models.Component, error) {
	var component models.Component
	err := s.db.Preload("Ingredients.Grocery").First(&component, id).Error
	if err != nil {
		return models.Component{}, err
	}
	return component, nil
}

func (s *componentService) CreateComponent(in ComponentInput) (models.Component, error) {
	component, rows, err := s.build(in, 0)
	if err != nil {
		return models.Component{}, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&component).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].ComponentID = component.ID
		}
		return tx.Omit(clause.Associations).Create(&rows).Error
	})
	if err != nil {
		return models.Component{}, err
	}

	s.log.WithFields(logrus.Fields{"component": component.Name, "cost": component.Cost}).
		Info("Component created")
	return s.GetComponentByID(component.ID)
}

func (s *componentService) UpdateComponent(id uint, in ComponentInput) (models.Component, error) {
	var existing models.Component
	if err := s.db.First(&existing, id).Error; err != nil {
		return models.Component{}, err
	}

	component, rows, err := s.build(in, id)
	if err != nil {
		return models.Component{}, err
	}
	component.ID = id
	component.CreatedAt = existing.CreatedAt

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// The ingredient list is recreated wholesale; rows carry no state of
		// their own worth preserving.
		if err := tx.Where("component_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].ComponentID = id
		}
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&component).Error; err != nil {
			return err
		}
		return NewPropagator(tx, s.log).AfterComponentChange(id)
	})
	if err != nil {
		return models.Component{}, err
	}

	s.log.WithFields(logrus.Fields{"component": component.Name, "cost": component.Cost}).
		Info("Component updated")
	return s.GetComponentByID(id)
}

func (s *componentService) DeleteComponent(id uint) error {
	var refs int64
	err := s.db.Table("recipe_components").Where("component_id = ?", id).Count(&refs).Error
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrComponentInUse
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("component_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Component{}, id).Error
	})
}

// build validates the input, parses the quantity strings, and assembles the
// component and its ingredient rows with the derived cost computed.
func (s *componentService) build(in ComponentInput, selfID uint) (models.Component, []models.Ingredient, error) {
	if !models.ValidComponentType(in.ComponentType) {
		return models.Component{}, nil, ErrUnknownType
	}
	if len(in.Ingredients) == 0 {
		return models.Component{}, nil, ErrNoIngredients
	}
	if err := s.checkNameFree(in.Name, selfID); err != nil {
		return models.Component{}, nil, err
	}

	rows := make([]models.Ingredient, 0, len(in.Ingredients))
	for _, ingIn := range in.Ingredients {
		var grocery models.Grocery
		if err := s.db.First(&grocery, ingIn.GroceryID).Error; err != nil {
			return models.Component{}, nil, err
		}
		if !units.Valid(ingIn.Units) {
			return models.Component{}, nil, ErrUnknownUnits
		}
		// Counted groceries are measured by count and volume groceries by
		// volume; the cost engine treats a mismatch as corrupted data, so it
		// must be rejected here at the boundary.
		if (ingIn.Units == units.Count) != (grocery.Units == units.Count) {
			return models.Component{}, nil, ErrUnitMismatch
		}

		amount, err := quantity.Parse(ingIn.Amount)
		if err != nil {
			return models.Component{}, nil, err
		}
		if !amount.IsPositive() {
			return models.Component{}, nil, ErrNonPositiveAmount
		}

		rows = append(rows, models.Ingredient{
			GroceryID: grocery.ID,
			Units:     ingIn.Units,
			Amount:    amount,
			Grocery:   grocery,
		})
	}

	cost, err := costing.ComponentCost(rows)
	if err != nil {
		return models.Component{}, nil, err
	}

	return models.Component{
		Name:          in.Name,
		ComponentType: in.ComponentType,
		Cost:          cost,
		Notes:         in.Notes,
	}, rows, nil
}

func (s *componentService) checkNameFree(name string, selfID uint) error {
	query := s.db.Model(&models.Component{}).Where("LOWER(name) = LOWER(?)", name)
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
