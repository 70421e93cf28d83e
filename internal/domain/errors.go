package domain

import "errors"

// Failure taxonomy for booking operations. Callers match with errors.Is;
// call sites wrap these with context via %w.
var (
	ErrInvalidRoute            = errors.New("unknown route")
	ErrInvalidDate             = errors.New("invalid travel date")
	ErrInvalidTimeSlot         = errors.New("departure is not in the route schedule")
	ErrSeatUnavailable         = errors.New("seat is not available")
	ErrInvalidPassengerDetails = errors.New("invalid passenger details")
	ErrReferenceExhausted      = errors.New("could not allocate a unique booking reference")

	ErrBookingNotFound = errors.New("booking not found")
	ErrHoldNotFound    = errors.New("hold not found")
)
