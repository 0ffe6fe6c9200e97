package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hostel-system/internal/faults"
)

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   message,
	})
}

// respondFault maps the service error taxonomy onto HTTP statuses.
// AlreadyRedeemed is reported as a conflict carrying the original
// collector so the caller can display who picked the kit up and when.
func respondFault(c *gin.Context, err error) {
	var (
		validation *faults.ValidationError
		notFound   *faults.NotFoundError
		stock      *faults.InsufficientStockError
		redeemed   *faults.AlreadyRedeemedError
		conflict   *faults.ConflictError
		dependency *faults.DependencyError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": validation.Error()})
	case errors.As(err, &stock):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success":   false,
			"error":     stock.Error(),
			"itemId":    stock.ItemID,
			"itemName":  stock.ItemName,
			"available": stock.Available,
			"requested": stock.Requested,
		})
	case errors.As(err, &redeemed):
		c.JSON(http.StatusConflict, gin.H{
			"success":     false,
			"error":       "token already redeemed",
			"collectedBy": redeemed.CollectedBy,
			"collectedAt": redeemed.CollectedAt,
		})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": notFound.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": conflict.Error()})
	case errors.As(err, &dependency):
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "temporary server error, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
	}
}

func parseUintParam(c *gin.Context, param string) (uint, error) {
	val, err := strconv.ParseUint(c.Param(param), 10, 64)
	return uint(val), err
}
