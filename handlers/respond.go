package handlers

import (
	"errors"
	"net/http"

	bookingRepo "carenow/database/repository/booking"
	partnerRepo "carenow/database/repository/partner"
	"carenow/services/booking"
	"carenow/services/matching"
	"carenow/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	var ve *booking.ValidationError
	var re *matching.RetrievalError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "validation failed",
			"errors":  ve.Errors,
		})
	case errors.Is(err, bookingRepo.ErrNotFound), errors.Is(err, partnerRepo.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, bookingRepo.ErrStatusConflict):
		utils.JSONError(c, http.StatusConflict, "state conflict", err.Error())
	case errors.As(err, &re):
		utils.JSONError(c, http.StatusInternalServerError, "partner search failed", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
