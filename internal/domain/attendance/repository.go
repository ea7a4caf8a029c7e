package attendance

import (
	"context"
)

// AttendanceRepository defines data access for attendance records.
// Dates are passed as local calendar-day strings ("2006-01-02").
type AttendanceRepository interface {
	// Create inserts a new record. The (employee_id, date) uniqueness
	// constraint owns the one-record-per-day invariant: a conflicting
	// insert returns ErrAlreadyCheckedIn.
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetByID retrieves a record by ID
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate retrieves the record for an employee on a date.
	// Returns (nil, nil) when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date string) (*Attendance, error)

	// CompleteCheckout persists checkout time, location, total hours, notes
	// and the terminal status.
	CompleteCheckout(ctx context.Context, att Attendance) error

	// BulkCreateAbsences inserts absence rows, skipping employees that
	// already have a record for the date. Returns the number inserted.
	BulkCreateAbsences(ctx context.Context, records []Attendance) (int, error)

	// ListEmployeeIDsWithRecord returns employee IDs that already have any
	// record for the date. Used by the absence sweep set difference.
	ListEmployeeIDsWithRecord(ctx context.Context, date string) ([]string, error)

	// ListAwaitingCheckoutReminder returns records for the date that are
	// still checked in and have not been reminded.
	ListAwaitingCheckoutReminder(ctx context.Context, date string) ([]Attendance, error)

	// MarkReminderSent flips the checkout_reminder_sent flag on a record.
	MarkReminderSent(ctx context.Context, id string) error

	// History retrieves an employee's records with filters and pagination.
	History(ctx context.Context, employeeID string, filter HistoryFilter) ([]Attendance, int64, error)
}
