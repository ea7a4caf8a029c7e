package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn = errors.New("you have already checked in today")
	ErrNonWorkingDay    = errors.New("today is not a working day")

	// Check-out errors
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// OutOfRangeError reports a check-in attempted outside the office geofence.
// The measured distance is part of the user-facing message.
type OutOfRangeError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("you are %.0fm away from the office; check-in requires being within %.0fm", e.DistanceMeters, e.RadiusMeters)
}
