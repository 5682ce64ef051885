package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeError maps service errors onto HTTP statuses. Persistence errors are
// returned as-is so the operator sees the code, details and hint.
func writeError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	var perr *domain.PersistenceError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Error(), "fields": verr.Fields})
	case errors.As(err, &perr):
		c.JSON(http.StatusBadGateway, gin.H{"error": perr})
	case errors.Is(err, domain.ErrDraftNotFound), errors.Is(err, domain.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrIndexOutOfRange),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrUnknownAddon),
		errors.Is(err, domain.ErrUnknownTripType),
		errors.Is(err, domain.ErrInvalidValue):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrSuperseded):
		c.AbortWithStatus(http.StatusNoContent)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
