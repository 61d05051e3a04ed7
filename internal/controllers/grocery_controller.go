package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mstclair/bakery-backoffice/internal/models"
	"github.com/mstclair/bakery-backoffice/internal/services"
)

// GroceryController handles HTTP requests related to groceries
type GroceryController interface {
	// GetAllGroceries retrieves all groceries
	GetAllGroceries(c *gin.Context)
	// GetGroceryByID retrieves a grocery by its ID
	GetGroceryByID(c *gin.Context)
	// CreateGrocery creates a new grocery
	CreateGrocery(c *gin.Context)
	// UpdateGrocery updates an existing grocery
	UpdateGrocery(c *gin.Context)
	// DeleteGrocery deletes a grocery by its ID
	DeleteGrocery(c *gin.Context)
}

type groceryController struct {
	service services.GroceryService
}

// NewGroceryController creates a new instance of GroceryController
func NewGroceryController(service services.GroceryService) GroceryController {
	return &groceryController{service: service}
}

// GetAllGroceries godoc
// @Summary Get all groceries
// @Description Get all purchased groceries with their derived unit costs
// @Tags groceries
// @Accept json
// @Produce json
// @Success 200 {array} models.Grocery
// @Failure 500 {object} models.APIError
// @Router /api/v1/public/groceries [get]
func (c *groceryController) GetAllGroceries(ctx *gin.Context) {
	groceries, err := c.service.ListGroceries()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, groceries)
}

// GetGroceryByID godoc
// @Summary Get grocery by ID
// @Description Get a single grocery by its ID
// @Tags groceries
// @Accept json
// @Produce json
// @Param id path int true "Grocery ID"
// @Success 200 {object} models.Grocery
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/v1/public/groceries/{id} [get]
func (c *groceryController) GetGroceryByID(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	grocery, err := c.service.GetGroceryByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, grocery)
}

// CreateGrocery godoc
// @Summary Create a new grocery
// @Description Create a grocery with the input payload; unit cost and hash are derived
// @Tags groceries
// @Accept json
// @Produce json
// @Param grocery body services.GroceryInput true "Grocery fields"
// @Success 201 {object} models.Grocery
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/groceries [post]
func (c *groceryController) CreateGrocery(ctx *gin.Context) {
	var in services.GroceryInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest,
			models.NewAPIError(models.ErrBadRequest, err.Error()))
		return
	}
	grocery, err := c.service.CreateGrocery(in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, grocery)
}

// UpdateGrocery godoc
// @Summary Update a grocery
// @Description Update a grocery; dependent components, recipes, and upcoming orders are recomputed
// @Tags groceries
// @Accept json
// @Produce json
// @Param id path int true "Grocery ID"
// @Param grocery body services.GroceryInput true "Grocery fields"
// @Success 200 {object} models.Grocery
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/groceries/{id} [put]
func (c *groceryController) UpdateGrocery(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var in services.GroceryInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest,
			models.NewAPIError(models.ErrBadRequest, err.Error()))
		return
	}
	grocery, err := c.service.UpdateGrocery(id, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, grocery)
}

// DeleteGrocery godoc
// @Summary Delete a grocery
// @Description Delete a grocery that no component references
// @Tags groceries
// @Accept json
// @Produce json
// @Param id path int true "Grocery ID"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/groceries/{id} [delete]
func (c *groceryController) DeleteGrocery(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.service.DeleteGrocery(id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}
