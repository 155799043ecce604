package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/gin-gonic/gin"
)

// respondError translates the domain error taxonomy into HTTP statuses.
// Transient store conflicts surface as 503 so the caller knows a retry may
// succeed; business-rule failures never do.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated),
		errors.Is(err, domain.ErrLoginFailed):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrFlightNotFound),
		errors.Is(err, domain.ErrUnknownItinerary),
		errors.Is(err, domain.ErrReservationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyLoggedIn),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrSameDayConflict),
		errors.Is(err, domain.ErrCapacityExhausted),
		errors.Is(err, domain.ErrInsufficientFunds):
		status = http.StatusConflict
	case repository.IsTransient(err):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
