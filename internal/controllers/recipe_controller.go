package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mstclair/bakery-backoffice/internal/models"
	"github.com/mstclair/bakery-backoffice/internal/services"
)

// RecipeController handles HTTP requests related to recipes
type RecipeController interface {
	GetAllRecipes(c *gin.Context)
	GetRecipeByID(c *gin.Context)
	CreateRecipe(c *gin.Context)
	UpdateRecipe(c *gin.Context)
	RecordActualTime(c *gin.Context)
	DeleteRecipe(c *gin.Context)
}

type recipeController struct {
	service services.RecipeService
}

// NewRecipeController creates a new instance of RecipeController
func NewRecipeController(service services.RecipeService) RecipeController {
	return &recipeController{service: service}
}

// GetAllRecipes godoc
// @Summary Get all recipes
// @Description Get the recipe catalog with derived costs and sale prices
// @Tags recipes
// @Accept json
// @Produce json
// @Success 200 {array} models.Recipe
// @Failure 500 {object} models.APIError
// @Router /api/v1/public/recipes [get]
func (c *recipeController) GetAllRecipes(ctx *gin.Context) {
	recipes, err := c.service.ListRecipes()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, recipes)
}

// GetRecipeByID godoc
// @Summary Get recipe by ID
// @Description Get a single recipe with its components and their ingredients
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.Recipe
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/v1/public/recipes/{id} [get]
func (c *recipeController) GetRecipeByID(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	recipe, err := c.service.GetRecipeByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, recipe)
}

// CreateRecipe godoc
// @Summary Create a new recipe
// @Description Create a recipe from existing components; cost and price are derived
// @Tags recipes
// @Accept json
// @Produce json
// @Param recipe body services.RecipeInput true "Recipe fields"
// @Success 201 {object} models.Recipe
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/recipes [post]
func (c *recipeController) CreateRecipe(ctx *gin.Context) {
	var in services.RecipeInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest,
			models.NewAPIError(models.ErrBadRequest, err.Error()))
		return
	}
	recipe, err := c.service.CreateRecipe(in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe godoc
// @Summary Update a recipe
// @Description Replace a recipe's fields and component list; upcoming orders are requoted
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param recipe body services.RecipeInput true "Recipe fields"
// @Success 200 {object} models.Recipe
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/recipes/{id} [put]
func (c *recipeController) UpdateRecipe(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var in services.RecipeInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest,
			models.NewAPIError(models.ErrBadRequest, err.Error()))
		return
	}
	recipe, err := c.service.UpdateRecipe(id, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, recipe)
}

// RecordActualTime godoc
// @Summary Record the actual time a recipe took
// @Description Store the measured hours, reprice the recipe, and requote upcoming orders
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param time body object{hours=string} true "Measured hours"
// @Success 200 {object} models.Recipe
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/recipes/{id}/actual-time [put]
func (c *recipeController) RecordActualTime(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req struct {
		Hours string `json:"hours" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest,
			models.NewAPIError(models.ErrBadRequest, err.Error()))
		return
	}
	recipe, err := c.service.RecordActualTime(id, req.Hours)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, recipe)
}

// DeleteRecipe godoc
// @Summary Delete a recipe
// @Description Delete a recipe that no order references
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/recipes/{id} [delete]
func (c *recipeController) DeleteRecipe(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.service.DeleteRecipe(id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}
