package reservation

import (
	"errors"
	"fmt"
)

// Kind sentinels. Every specific rejection wraps exactly one of these, so
// handlers and callers classify with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
)

var (
	ErrStartNotAligned   = fmt.Errorf("%w: start must be on a 30-minute boundary", ErrValidation)
	ErrEndNotAligned     = fmt.Errorf("%w: end must be on a 30-minute boundary", ErrValidation)
	ErrStartOutsideHours = fmt.Errorf("%w: start must be within operating hours", ErrValidation)
	ErrEndOutsideHours   = fmt.Errorf("%w: end must be within operating hours", ErrValidation)
	ErrInvalidDuration   = fmt.Errorf("%w: duration must be 60, 90, 120, 150 or 180 minutes", ErrValidation)
	ErrDurationMismatch  = fmt.Errorf("%w: end minus start must match the selected duration", ErrValidation)
	ErrStartInPast       = fmt.Errorf("%w: cannot book in the past", ErrValidation)
	ErrInvalidDate       = fmt.Errorf("%w: invalid date, expected YYYY-MM-DD", ErrValidation)
	ErrInvalidStatus     = fmt.Errorf("%w: unknown status filter", ErrValidation)

	ErrUserDayConflict = fmt.Errorf("%w: user already has an active reservation this day", ErrConflict)
	ErrRoomConflict    = fmt.Errorf("%w: room already booked for that time", ErrConflict)

	ErrReservationNotFound = fmt.Errorf("%w: reservation not found", ErrNotFound)
	ErrRoomNotFound        = fmt.Errorf("%w: room not found or inactive", ErrNotFound)

	ErrAlreadyProcessed = fmt.Errorf("%w: reservation already processed", ErrInvalidState)
	ErrAlreadyCancelled = fmt.Errorf("%w: reservation already cancelled", ErrInvalidState)
)
