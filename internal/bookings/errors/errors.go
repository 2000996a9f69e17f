package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrReservationNotFound = errors.New("reservation not found")

	ErrReservationHeld = errors.New("slot is already reserved")

	ErrReservationConsumed = errors.New("reservation consumed by a different booking")

	ErrInvalidTimeRange = errors.New("end time must be after start time")
)
