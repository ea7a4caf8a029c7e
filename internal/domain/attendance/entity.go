package attendance

import (
	"time"
)

// Status is the state of an attendance record for one employee-day.
type Status string

const (
	StatusAbsent     Status = "absent"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
)

// Attendance is the authoritative daily record, one row per (employee, date).
// CheckedOut is terminal for that date; TotalHours is set only at checkout.
type Attendance struct {
	ID                   string
	EmployeeID           string
	Date                 time.Time // calendar day, not a timestamp
	Status               Status
	CheckInTime          *time.Time
	CheckOutTime         *time.Time
	IsLate               bool
	MinutesLate          int
	CheckInLatitude      *float64
	CheckInLongitude     *float64
	CheckInAddress       *string
	CheckOutLatitude     *float64
	CheckOutLongitude    *float64
	CheckOutAddress      *string
	TotalHours           *float64
	CheckoutReminderSent bool
	Notes                *string
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// DTO
	EmployeeName *string
}
