package attendance

import (
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// Location is a coordinate with an optional resolved street address.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   *string `json:"address,omitempty"`
}

type CheckInRequest struct {
	EmployeeID string    `json:"-"`
	Location   *Location `json:"location,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Location != nil {
		if !validator.IsValidLatitude(r.Location.Latitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "latitude",
				Message: "latitude must be between -90 and 90",
			})
		}
		if !validator.IsValidLongitude(r.Location.Longitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "longitude",
				Message: "longitude must be between -180 and 180",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckInResponse struct {
	AttendanceID string `json:"attendance_id"`
	Date         string `json:"date"`
	CheckInTime  string `json:"check_in_time"`
	IsLate       bool   `json:"is_late"`
	MinutesLate  int    `json:"minutes_late"`
}

type CheckOutRequest struct {
	EmployeeID string    `json:"-"`
	Location   *Location `json:"location,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Location != nil {
		if !validator.IsValidLatitude(r.Location.Latitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "latitude",
				Message: "latitude must be between -90 and 90",
			})
		}
		if !validator.IsValidLongitude(r.Location.Longitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "longitude",
				Message: "longitude must be between -180 and 180",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutResponse struct {
	AttendanceID string  `json:"attendance_id"`
	Date         string  `json:"date"`
	CheckOutTime string  `json:"check_out_time"`
	TotalHours   float64 `json:"total_hours"`
}

type AttendanceResponse struct {
	ID                   string   `json:"id"`
	EmployeeID           string   `json:"employee_id"`
	EmployeeName         *string  `json:"employee_name,omitempty"`
	Date                 string   `json:"date"`
	Status               Status   `json:"status"`
	CheckInTime          *string  `json:"check_in_time"`
	CheckOutTime         *string  `json:"check_out_time"`
	IsLate               bool     `json:"is_late"`
	MinutesLate          int      `json:"minutes_late"`
	CheckInLatitude      *float64 `json:"check_in_latitude,omitempty"`
	CheckInLongitude     *float64 `json:"check_in_longitude,omitempty"`
	CheckInAddress       *string  `json:"check_in_address,omitempty"`
	CheckOutLatitude     *float64 `json:"check_out_latitude,omitempty"`
	CheckOutLongitude    *float64 `json:"check_out_longitude,omitempty"`
	CheckOutAddress      *string  `json:"check_out_address,omitempty"`
	TotalHours           *float64 `json:"total_hours"`
	CheckoutReminderSent bool     `json:"checkout_reminder_sent"`
	Notes                *string  `json:"notes,omitempty"`
}

type HistoryFilter struct {
	StartDate *string
	EndDate   *string
	Status    *string
	Page      int
	Limit     int
	SortOrder string
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be YYYY-MM-DD",
			})
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be YYYY-MM-DD",
			})
		}
	}
	if f.Status != nil && *f.Status != "" {
		valid := []string{string(StatusAbsent), string(StatusCheckedIn), string(StatusCheckedOut)}
		if !validator.IsInSlice(*f.Status, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of absent, checked_in, checked_out",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HistoryResponse struct {
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
	Showing    string               `json:"showing"`
	Records    []AttendanceResponse `json:"records"`
}
