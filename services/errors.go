package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the service layer. Controllers map these to HTTP
// statuses; anything else is treated as an internal error.
var (
	ErrRoomNotFound       = errors.New("room_not_found")
	ErrNoAvailability     = errors.New("no_rooms_available")
	ErrBookingNotFound    = errors.New("booking_not_found")
	ErrBookingNotActive   = errors.New("booking_not_active")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrEmailTaken         = errors.New("email_already_registered")
	ErrInvalidCredentials = errors.New("invalid_credentials")
)

// ValidationError marks input the services rejected before touching the store.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func newValidationError(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
