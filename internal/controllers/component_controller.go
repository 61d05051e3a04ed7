package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mstclair/bakery-backoffice/internal/models"
	"github.com/mstclair/bakery-backoffice/internal/services"
)

// ComponentController handles HTTP requests related to components
type ComponentController interface {
	GetAllComponents(c *gin.Context)
	GetComponentByID(c *gin.Context)
	CreateComponent(c *gin.Context)
	UpdateComponent(c *gin.Context)
	DeleteComponent(c *gin.Context)
}

type componentController struct {
	service services.ComponentService
}

// NewComponentController creates a new instance of ComponentController
func NewComponentController(service services.ComponentService) ComponentController {
	return &componentController{service: service}
}

// GetAllComponents godoc
// @Summary Get all components
// @Description Get all components with their ingredient lists, grouped by type
// @Tags components
// @Accept json
// @Produce json
// @Success 200 {array} models.Component
// @Failure 500 {object} models.APIError
// @Router /api/v1/public/components [get]
func (c *componentController) GetAllComponents(ctx *gin.Context) {
	components, err := c.service.ListComponents()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, components)
}

// GetComponentByID godoc
// @Summary Get component by ID
// @Description Get a single component with its ingredient list
// @Tags components
// @Accept json
// @Produce json
// @Param id path int true "Component ID"
// @Success 200 {object} models.Component
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/v1/public/components/{id} [get]
func (c *componentController) GetComponentByID(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	component, err := c.service.GetComponentByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, component)
}

// CreateComponent godoc
// @Summary Create a new component
// @Description Create a component with its ingredient list; the cost is derived
// @Tags components
// @Accept json
// @Produce json
// @Param component body services.ComponentInput true "Component fields"
// @Success 201 {object} models.Component
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/components [post]
func (c *componentController) CreateComponent(ctx *gin.Context) {
	var in services.ComponentInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest,
			models.NewAPIError(models.ErrBadRequest, err.Error()))
		return
	}
	component, err := c.service.CreateComponent(in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, component)
}

// UpdateComponent godoc
// @Summary Update a component
// @Description Replace a component's fields and ingredient list; recipes and upcoming orders are recomputed
// @Tags components
// @Accept json
// @Produce json
// @Param id path int true "Component ID"
// @Param component body services.ComponentInput true "Component fields"
// @Success 200 {object} models.Component
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/components/{id} [put]
func (c *componentController) UpdateComponent(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var in services.ComponentInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest,
			models.NewAPIError(models.ErrBadRequest, err.Error()))
		return
	}
	component, err := c.service.UpdateComponent(id, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, component)
}

// DeleteComponent godoc
// @Summary Delete a component
// @Description Delete a component that no recipe references
// @Tags components
// @Accept json
// @Produce json
// @Param id path int true "Component ID"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/components/{id} [delete]
func (c *componentController) DeleteComponent(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.service.DeleteComponent(id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}
