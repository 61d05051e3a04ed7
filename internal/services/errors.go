package services

import "errors"

// Validation and referential-integrity errors surfaced to controllers.
// Deletion guards are preconditions: nothing is deleted when they fail.
var (
	ErrDuplicateName     = errors.New("an entry with that name already exists")
	ErrNegativeCost      = errors.New("cost must not be negative")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrUnknownUnits      = errors.New("unknown measurement units")
	ErrCountDefaultUnits = errors.New("default units may be count only when purchase units are count")
	ErrUnitMismatch      = errors.New("measurement must be count exactly when the grocery is purchased by count")
	ErrUnknownType       = errors.New("unknown component type")
	ErrNoIngredients     = errors.New("at least one ingredient is required")
	ErrNoComponents      = errors.New("at least one component is required")
	ErrNoLines           = errors.New("at least one recipe is required")
	ErrBadQuantity       = errors.New("quantity must be at least one")

	ErrGroceryInUse   = errors.New("grocery is still used by a component")
	ErrComponentInUse = errors.New("component is still used by a recipe")
	ErrRecipeInUse    = errors.New("recipe is still part of an order")
)
