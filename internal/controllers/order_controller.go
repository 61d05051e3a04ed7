package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mstclair/bakery-backoffice/internal/models"
	"github.com/mstclair/bakery-backoffice/internal/services"
)

// OrderController handles HTTP requests related to customer orders
type OrderController interface {
	GetAllOrders(c *gin.Context)
	GetUpcomingOrders(c *gin.Context)
	GetOrderByID(c *gin.Context)
	CreateOrder(c *gin.Context)
	UpdateOrder(c *gin.Context)
	MarkDepositPaid(c *gin.Context)
	RecordPayment(c *gin.Context)
	CompletePostmortem(c *gin.Context)
	DeleteOrder(c *gin.Context)
}

type orderController struct {
	service services.OrderService
}

// NewOrderController creates a new instance of OrderController
func NewOrderController(service services.OrderService) OrderController {
	return &orderController{service: service}
}

// GetAllOrders godoc
// @Summary Get all orders
// @Description Get every order, past and upcoming, by delivery date
// @Tags orders
// @Accept json
// @Produce json
// @Success 200 {array} models.Order
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders [get]
func (c *orderController) GetAllOrders(ctx *gin.Context) {
	orders, err := c.service.ListOrders()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

// GetUpcomingOrders godoc
// @Summary Get upcoming orders
// @Description Get orders due today or later, soonest first
// @Tags orders
// @Accept json
// @Produce json
// @Success 200 {array} models.Order
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/upcoming [get]
func (c *orderController) GetUpcomingOrders(ctx *gin.Context) {
	orders, err := c.service.ListUpcomingOrders()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

// GetOrderByID godoc
// @Summary Get order by ID
// @Description Get a single order with its line items
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id} [get]
func (c *orderController) GetOrderByID(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	order, err := c.service.GetOrderByID(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// CreateOrder godoc
// @Summary Create a new order
// @Description Create an order; the quoted price and deposit are derived from its lines
// @Tags orders
// @Accept json
// @Produce json
// @Param order body services.OrderInput true "Order fields"
// @Success 201 {object} models.Order
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders [post]
func (c *orderController) CreateOrder(ctx *gin.Context) {
	var in services.OrderInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest,
			models.NewAPIError(models.ErrBadRequest, err.Error()))
		return
	}
	order, err := c.service.CreateOrder(in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, order)
}

// UpdateOrder godoc
// @Summary Update an order
// @Description Replace an order's fields and lines and requote it; a paid deposit keeps its amount
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param order body services.OrderInput true "Order fields"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id} [put]
func (c *orderController) UpdateOrder(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var in services.OrderInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		ctx.JSON(http.StatusBadRequest,
			models.NewAPIError(models.ErrBadRequest, err.Error()))
		return
	}
	order, err := c.service.UpdateOrder(id, in)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// MarkDepositPaid godoc
// @Summary Mark the order's deposit paid
// @Description Freeze the deposit at its current amount
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id}/deposit-paid [put]
func (c *orderController) MarkDepositPaid(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	order, err := c.service.MarkDepositPaid(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// RecordPayment godoc
// @Summary Record the final payment
// @Description Store what the customer actually paid, which may differ from the quote
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param payment body object{price_paid=int} true "Amount paid"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id}/payment [put]
func (c *orderController) RecordPayment(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req struct {
		PricePaid *int64 `json:"price_paid" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest,
			models.NewAPIError(models.ErrBadRequest, err.Error()))
		return
	}
	order, err := c.service.RecordPayment(id, *req.PricePaid)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// CompletePostmortem godoc
// @Summary Complete the order postmortem
// @Description Mark the after-delivery review done
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Order
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id}/postmortem [put]
func (c *orderController) CompletePostmortem(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	order, err := c.service.CompletePostmortem(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// DeleteOrder godoc
// @Summary Delete an order
// @Description Delete an order and its lines
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Success 204
// @Failure 400 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/v1/orders/{id} [delete]
func (c *orderController) DeleteOrder(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.service.DeleteOrder(id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusNoContent, nil)
}
