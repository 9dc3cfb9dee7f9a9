package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"phoenixmart/internal/domain"
)

// writeError converts a domain error into a structured response. Every error
// kind is recoverable and reported to the caller; nothing here is fatal.
func writeError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"field":   validationErr.Field,
			"message": validationErr.Error(),
		})
		return
	}

	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		name := stockErr.Name
		if name == "" {
			name = stockErr.VariantID
		}
		c.JSON(http.StatusConflict, gin.H{
			"success":   false,
			"item":      name,
			"available": stockErr.Available,
			"message":   stockErr.Error(),
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrEmptyOrder):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "nothing to order",
		})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "item not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "internal error",
		})
	}
}
