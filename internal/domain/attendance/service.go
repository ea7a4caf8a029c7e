package attendance

import (
	"context"
)

// AttendanceService is the daily attendance state machine:
// Absent (implicit) -> CheckedIn -> CheckedOut (terminal).
type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckOutResponse, error)

	// GetTodayStatus returns nil when the employee has no record yet today.
	GetTodayStatus(ctx context.Context, employeeID string) (*AttendanceResponse, error)

	History(ctx context.Context, employeeID string, filter HistoryFilter) (HistoryResponse, error)
}
