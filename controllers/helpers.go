package controllers

import (
	"errors"
	"net/http"

	"hotel-booking-backend/services"
)

// serviceErrorStatus maps service-layer errors to HTTP statuses so every
// failure kind stays distinguishable at the transport boundary.
func serviceErrorStatus(err error) int {
	switch {
	case services.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNoAvailability),
		errors.Is(err, services.ErrBookingNotActive),
		errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
