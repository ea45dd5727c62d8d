package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"btrips/internal/repository"
	"btrips/internal/service"
)

// ErrorResponse is the failure envelope: a false success flag and a
// human-readable error string. Nothing internal beyond the upstream error
// message is exposed.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// respondError sends a failure envelope with the mapped HTTP status.
func respondError(c *gin.Context, err error) {
	c.JSON(mapErrorToHTTPStatus(err), ErrorResponse{Success: false, Error: err.Error()})
}

// respondBadRequest rejects a request before any service call.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: message})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not-found errors: a lookup came back empty.
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound

	// Validation errors: rejected before any I/O.
	case errors.Is(err, service.ErrMissingCustomerFields),
		errors.Is(err, service.ErrMissingMethodSource),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidPaymentMethodID),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrMissingDescription),
		errors.Is(err, service.ErrNoDefaultPaymentMethod),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidRatingDirection),
		errors.Is(err, service.ErrInputTooShort),
		errors.Is(err, service.ErrMissingPlaceID):
		return http.StatusBadRequest

	// Upstream and store failures.
	default:
		return http.StatusInternalServerError
	}
}
