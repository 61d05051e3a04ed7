package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mstclair/bakery-backoffice/internal/costing"
	"github.com/mstclair/bakery-backoffice/internal/models"
)

// Propagator re-derives stored cost/price fields after an upstream change,
// walking the dependency graph one level at a time:
//
//	grocery -> components -> recipes -> upcoming orders
//
// Each level collects the distinct IDs of affected rows before recomputing,
// so a grocery feeding two components of the same recipe still recomputes
// that recipe exactly once. Every node's new value is computed in full
// before it is written; an error aborts the walk with nothing further
// touched. Run it inside the transaction that performed the change so a
// failed pass rolls back together with it.
type Propagator struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewPropagator creates a propagator bound to db, typically a transaction.
func NewPropagator(db *gorm.DB, log *logrus.Logger) *Propagator {
	return &Propagator{db: db, log: log}
}

// AfterGroceryChange recomputes every component using the grocery, then
// everything above those components.
func (p *Propagator) AfterGroceryChange(groceryID uint) error {
	var componentIDs []uint
	err := p.db.Model(&models.Ingredient{}).
		Where("grocery_id = ?", groceryID).
		Distinct().
		Pluck("component_id", &componentIDs).Error
	if err != nil {
		return err
	}
	return p.recomputeComponents(componentIDs)
}

// AfterComponentChange recomputes every recipe using the component, then the
// orders above them.
func (p *Propagator) AfterComponentChange(componentID uint) error {
	return p.propagateToRecipes([]uint{componentID})
}

// AfterRecipeChange recomputes every upcoming order that includes the recipe.
func (p *Propagator) AfterRecipeChange(recipeID uint) error {
	return p.propagateToOrders([]uint{recipeID})
}

func (p *Propagator) recomputeComponents(ids []uint) error {
	ids = dedup(ids)
	if len(ids) == 0 {
		return nil
	}
	p.log.WithField("components", ids).Debug("Propagating grocery change to components")

	for _, id := range ids {
		var component models.Component
		if err := p.db.Preload("Ingredients.Grocery").First(&component, id).Error; err != nil {
			return err
		}
		cost, err := costing.ComponentCost(component.Ingredients)
		if err != nil {
			return err
		}
		if err := p.db.Model(&models.Component{}).Where("id = ?", id).
			Update("cost", cost).Error; err != nil {
			return err
		}
	}
	return p.propagateToRecipes(ids)
}

func (p *Propagator) propagateToRecipes(componentIDs []uint) error {
	componentIDs = dedup(componentIDs)
	if len(componentIDs) == 0 {
		return nil
	}

	var recipeIDs []uint
	err := p.db.Table("recipe_components").
		Where("component_id IN ?", componentIDs).
		Distinct().
		Pluck("recipe_id", &recipeIDs).Error
	if err != nil {
		return err
	}
	return p.recomputeRecipes(recipeIDs)
}

func (p *Propagator) recomputeRecipes(ids []uint) error {
	ids = dedup(ids)
	if len(ids) == 0 {
		return nil
	}
	p.log.WithField("recipes", ids).Debug("Propagating component change to recipes")

	for _, id := range ids {
		var recipe models.Recipe
		if err := p.db.Preload("Components").First(&recipe, id).Error; err != nil {
			return err
		}
		cost := costing.RecipeCost(recipe.Components)
		price := costing.RecipePrice(cost, recipe.TimeEstimate, recipe.TimeActual)
		err := p.db.Model(&models.Recipe{}).Where("id = ?", id).
			Updates(map[string]interface{}{"cost": cost, "price": price}).Error
		if err != nil {
			return err
		}
	}
	return p.propagateToOrders(ids)
}

func (p *Propagator) propagateToOrders(recipeIDs []uint) error {
	recipeIDs = dedup(recipeIDs)
	if len(recipeIDs) == 0 {
		return nil
	}

	// Delivered orders are history; only orders still ahead of us follow
	// recipe price changes.
	var orderIDs []uint
	err := p.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.recipe_id IN ?", recipeIDs).
		Where("orders.delivery_date >= ?", startOfToday()).
		Distinct().
		Pluck("order_items.order_id", &orderIDs).Error
	if err != nil {
		return err
	}
	return p.recomputeOrders(orderIDs)
}

func (p *Propagator) recomputeOrders(ids []uint) error {
	ids = dedup(ids)
	if len(ids) == 0 {
		return nil
	}
	p.log.WithField("orders", ids).Debug("Propagating recipe change to orders")

	for _, id := range ids {
		var order models.Order
		if err := p.db.Preload("Items.Recipe").First(&order, id).Error; err != nil {
			return err
		}
		quoted, deposit := costing.OrderTotals(orderLines(order.Items),
			order.RequiresDelivery, order.DepositPaid, order.Deposit)
		err := p.db.Model(&models.Order{}).Where("id = ?", id).
			Updates(map[string]interface{}{"quoted_price": quoted, "deposit": deposit}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// orderLines projects preloaded order items onto the costing input.
func orderLines(items []models.OrderItem) []costing.OrderLine {
	lines := make([]costing.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, costing.OrderLine{
			Price:    item.Recipe.Price,
			Cost:     item.Recipe.Cost,
			Quantity: item.Quantity,
		})
	}
	return lines
}

func dedup(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
