package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mstclair/bakery-backoffice/internal/costing"
	"github.com/mstclair/bakery-backoffice/internal/models"
	"github.com/mstclair/bakery-backoffice/internal/quantity"
	"github.com/mstclair/bakery-backoffice/internal/services"
)

// respondError translates service-layer errors into API error responses so
// every controller reports the same shapes.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		ctx.JSON(http.StatusNotFound,
			models.NewAPIError(models.ErrNotFound, "resource not found"))
	case errors.Is(err, services.ErrDuplicateName):
		ctx.JSON(http.StatusConflict,
			models.NewAPIError(models.ErrDuplicateName, err.Error()))
	case errors.Is(err, services.ErrGroceryInUse),
		errors.Is(err, services.ErrComponentInUse),
		errors.Is(err, services.ErrRecipeInUse):
		ctx.JSON(http.StatusConflict,
			models.NewAPIError(models.ErrStillReferenced, err.Error()))
	case errors.Is(err, services.ErrUnknownUnits),
		errors.Is(err, services.ErrCountDefaultUnits),
		errors.Is(err, services.ErrUnitMismatch),
		errors.Is(err, costing.ErrUnitPairing):
		ctx.JSON(http.StatusBadRequest,
			models.NewAPIError(models.ErrInvalidUnits, err.Error()))
	case errors.Is(err, costing.ErrZeroCostAmount):
		ctx.JSON(http.StatusBadRequest,
			models.NewAPIError(models.ErrZeroCostAmount, err.Error()))
	case quantity.IsParseError(err),
		errors.Is(err, services.ErrNonPositiveAmount),
		errors.Is(err, services.ErrBadQuantity):
		ctx.JSON(http.StatusBadRequest,
			models.NewAPIError(models.ErrInvalidQuantity, err.Error()))
	case errors.Is(err, services.ErrNegativeCost),
		errors.Is(err, services.ErrUnknownType),
		errors.Is(err, services.ErrNoIngredients),
		errors.Is(err, services.ErrNoComponents),
		errors.Is(err, services.ErrNoLines):
		ctx.JSON(http.StatusBadRequest,
			models.NewAPIError(models.ErrValidationFailed, err.Error()))
	default:
		ctx.JSON(http.StatusInternalServerError,
			models.NewAPIError(models.ErrInternalServer, "internal server error"))
	}
}

// pathID parses the {id} path parameter; it writes the error response itself.
func pathID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest,
			models.NewAPIError(models.ErrBadRequest, "invalid id"))
		return 0, false
	}
	return uint(id), true
}
