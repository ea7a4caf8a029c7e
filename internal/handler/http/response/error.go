package response

import (
	"errors"
	"net/http"

	"github.com/Cachi0001/Simplified-HRM-sub007/internal/domain/attendance"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/domain/employee"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/domain/notification"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. Validation and guard
// failures (out of range, non-working day, duplicate check-in) are all client
// errors and answer 400.
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		BadRequest(w, "Validation failed", validationErrs.ToMap())
		return
	}

	// Geofence rejection carries the measured distance in its message
	var rangeErr *attendance.OutOfRangeError
	if errors.As(err, &rangeErr) {
		BadRequest(w, rangeErr.Error(), nil)
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		BadRequest(w, "Already checked in today", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		BadRequest(w, "Already checked out today", nil)
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "No check-in recorded today", nil)
	case errors.Is(err, attendance.ErrNonWorkingDay):
		BadRequest(w, "Attendance is not tracked on non-working days", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrEmptyBatch):
		BadRequest(w, "Notification batch is empty", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
