package api

import (
	"errors"
	"net/http"

	"github.com/dmuriuki/busline/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondError maps domain failures to HTTP statuses and writes the JSON
// error body.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFromError(err), gin.H{"error": err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRoute),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrHoldNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidTimeSlot),
		errors.Is(err, domain.ErrInvalidPassengerDetails):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSeatUnavailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
