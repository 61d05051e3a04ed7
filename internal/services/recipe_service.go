package services

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mstclair/bakery-backoffice/internal/costing"
	"github.com/mstclair/bakery-backoffice/internal/models"
	"github.com/mstclair/bakery-backoffice/internal/quantity"
)

// RecipeInput carries the fields of a recipe create or update. TimeEstimate
// is the raw quantity text the user typed, in hours. MadeBefore marks the
// estimate as verified: the actual time is seeded from it and the price
// drops the estimation margin.
type RecipeInput struct {
	Name         string `json:"name" binding:"required"`
	ComponentIDs []uint `json:"component_ids"`
	TimeEstimate string `json:"time_estimate" binding:"required"`
	MadeBefore   bool   `json:"made_before"`
	ImagePath    string `json:"image_path"`
	Notes        string `json:"notes"`
}

// RecipeService manages recipes, keeping the derived cost and sale price
// current.
type RecipeService interface {
	ListRecipes() ([]models.Recipe, error)
	GetRecipeByID(id uint) (models.Recipe, error)
	CreateRecipe(in RecipeInput) (models.Recipe, error)
	// UpdateRecipe rewrites the recipe and re-derives every upcoming order
	// that includes it.
	UpdateRecipe(id uint, in RecipeInput) (models.Recipe, error)
	// RecordActualTime stores the measured hours after the recipe has been
	// made, reprices it, and re-derives upcoming orders.
	RecordActualTime(id uint, hours string) (models.Recipe, error)
	// DeleteRecipe fails with ErrRecipeInUse while any order references
	// the recipe.
	DeleteRecipe(id uint) error
}

type recipeService struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewRecipeService creates a new instance of RecipeService.
func NewRecipeService(db *gorm.DB, log *logrus.Logger) RecipeService {
	return &recipeService{db: db, log: log}
}

func (s *recipeService) ListRecipes() ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.Preload("Components").Order("name").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *recipeService) GetRecipeByID(id uint) (models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.Preload("Components.Ingredients.Grocery").First(&recipe, id).Error
	if err != nil {
		return models.Recipe{}, err
	}
	return recipe, nil
}

func (s *recipeService) CreateRecipe(in RecipeInput) (models.Recipe, error) {
	recipe, components, err := s.build(in, 0)
	if err != nil {
		return models.Recipe{}, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		return tx.Model(&recipe).Association("Components").Append(components)
	})
	if err != nil {
		return models.Recipe{}, err
	}

	s.log.WithFields(logrus.Fields{
		"recipe": recipe.Name, "cost": recipe.Cost, "price": recipe.Price,
	}).Info("Recipe created")
	return s.GetRecipeByID(recipe.ID)
}

func (s *recipeService) UpdateRecipe(id uint, in RecipeInput) (models.Recipe, error) {
	var existing models.Recipe
	if err := s.db.First(&existing, id).Error; err != nil {
		return models.Recipe{}, err
	}

	recipe, components, err := s.build(in, id)
	if err != nil {
		return models.Recipe{}, err
	}
	recipe.ID = id
	recipe.CreatedAt = existing.CreatedAt
	// An already-proven actual time survives edits; MadeBefore only seeds it
	// on intake.
	if !existing.TimeActual.IsZero() {
		recipe.TimeActual = existing.TimeActual
		recipe.Price = costing.RecipePrice(recipe.Cost, recipe.TimeEstimate, recipe.TimeActual)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Components").Replace(components); err != nil {
			return err
		}
		return NewPropagator(tx, s.log).AfterRecipeChange(id)
	})
	if err != nil {
		return models.Recipe{}, err
	}

	s.log.WithFields(logrus.Fields{
		"recipe": recipe.Name, "cost": recipe.Cost, "price": recipe.Price,
	}).Info("Recipe updated")
	return s.GetRecipeByID(id)
}

func (s *recipeService) RecordActualTime(id uint, hours string) (models.Recipe, error) {
	actual, err := quantity.Parse(hours)
	if err != nil {
		return models.Recipe{}, err
	}
	if !actual.IsPositive() {
		return models.Recipe{}, ErrNonPositiveAmount
	}

	var recipe models.Recipe
	if err := s.db.Preload("Components").First(&recipe, id).Error; err != nil {
		return models.Recipe{}, err
	}

	recipe.TimeActual = actual
	recipe.Price = costing.RecipePrice(recipe.Cost, recipe.TimeEstimate, recipe.TimeActual)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Recipe{}).Where("id = ?", id).
			Updates(map[string]interface{}{"time_actual": actual, "price": recipe.Price}).Error
		if err != nil {
			return err
		}
		return NewPropagator(tx, s.log).AfterRecipeChange(id)
	})
	if err != nil {
		return models.Recipe{}, err
	}
	return recipe, nil
}

func (s *recipeService) DeleteRecipe(id uint) error {
	var refs int64
	err := s.db.Model(&models.OrderItem{}).Where("recipe_id = ?", id).Count(&refs).Error
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrRecipeInUse
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Components").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, id).Error
	})
}

// build validates the input, parses the time estimate, and assembles a
// recipe with its derived cost and price computed.
func (s *recipeService) build(in RecipeInput, selfID uint) (models.Recipe, []models.Component, error) {
	if len(in.ComponentIDs) == 0 {
		return models.Recipe{}, nil, ErrNoComponents
	}
	if err := s.checkNameFree(in.Name, selfID); err != nil {
		return models.Recipe{}, nil, err
	}

	estimate, err := quantity.Parse(in.TimeEstimate)
	if err != nil {
		return models.Recipe{}, nil, err
	}
	if !estimate.IsPositive() {
		return models.Recipe{}, nil, ErrNonPositiveAmount
	}

	var components []models.Component
	if err := s.db.Find(&components, in.ComponentIDs).Error; err != nil {
		return models.Recipe{}, nil, err
	}
	if len(components) != len(dedup(in.ComponentIDs)) {
		return models.Recipe{}, nil, gorm.ErrRecordNotFound
	}

	timeActual := decimal.Zero
	if in.MadeBefore {
		// The estimate of a recipe made before is its real time.
		timeActual = estimate
	}

	cost := costing.RecipeCost(components)
	price := costing.RecipePrice(cost, estimate, timeActual)

	return models.Recipe{
		Name:         in.Name,
		TimeEstimate: estimate,
		TimeActual:   timeActual,
		Cost:         cost,
		Price:        price,
		ImagePath:    in.ImagePath,
		Notes:        in.Notes,
	}, components, nil
}

func (s *recipeService) checkNameFree(name string, selfID uint) error {
	query := s.db.Model(&models.Recipe{}).Where("LOWER(name) = LOWER(?)", name)
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
