package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/domain/booking"
	"stayfinder/internal/domain/property"
	"stayfinder/internal/domain/shared/daterange"
)

// writeError maps domain errors onto HTTP statuses. Anything unmapped is a
// storage or infrastructure fault and surfaces as a 500 without leaking
// internals.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	case errors.Is(err, property.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
	case errors.Is(err, booking.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not allowed"})
	case errors.Is(err, booking.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "operation not allowed in current status"})
	case errors.Is(err, booking.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "property not available for selected dates"})
	case errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, booking.ErrCheckInInPast),
		errors.Is(err, booking.ErrInvalidGuests),
		errors.Is(err, booking.ErrNegativePrice):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
