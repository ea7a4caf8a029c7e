package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Cachi0001/Simplified-HRM-sub007/internal/config"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/domain/attendance"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/domain/employee"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/domain/notification"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/clock"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/geofence"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	dispatcher     notification.Dispatcher
	policy         config.AttendanceConfig
	loc            *time.Location
	clock          clock.Clock
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	format := t.In(loc).Format("2006-01-02 15:04:05")
	return &format
}

// scheduledStartAt places the configured work start time on the given local day.
func (a *AttendanceServiceImpl) scheduledStartAt(dayLocal time.Time) time.Time {
	start, _ := time.Parse("15:04", a.policy.WorkStart)
	return time.Date(
		dayLocal.Year(), dayLocal.Month(), dayLocal.Day(),
		start.Hour(), start.Minute(), 0, 0,
		a.loc,
	)
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}

	nowUTC := a.clock.Now().UTC()
	nowLocal := nowUTC.In(a.loc)
	dateLocal := nowLocal.Format("2006-01-02")

	if !geofence.IsWorkingDay(nowLocal, a.policy.WorkingDays) {
		return attendance.CheckInResponse{}, attendance.ErrNonWorkingDay
	}

	// Friendly pre-check; the (employee_id, date) constraint behind Create
	// is what actually guarantees one record per day.
	existing, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, dateLocal)
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to check for existing attendance: %w", err)
	}
	if existing != nil {
		return attendance.CheckInResponse{}, attendance.ErrAlreadyCheckedIn
	}

	if req.Location != nil {
		distance := geofence.Distance(
			req.Location.Latitude, req.Location.Longitude,
			a.policy.OfficeLatitude, a.policy.OfficeLongitude,
		)
		if distance > a.policy.OfficeRadiusMeters {
			return attendance.CheckInResponse{}, &attendance.OutOfRangeError{
				DistanceMeters: distance,
				RadiusMeters:   a.policy.OfficeRadiusMeters,
			}
		}
	}

	lateness := geofence.ComputeLateness(nowLocal, a.scheduledStartAt(nowLocal), a.policy.LateThresholdMins)

	data := attendance.Attendance{
		EmployeeID: req.EmployeeID,

		// Date is the local working day, not a timestamp
		Date: time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, time.UTC),

		Status:      attendance.StatusCheckedIn,
		CheckInTime: &nowUTC,
		IsLate:      lateness.IsLate,
		MinutesLate: lateness.MinutesLate,
		Notes:       req.Notes,
	}
	if req.Location != nil {
		data.CheckInLatitude = &req.Location.Latitude
		data.CheckInLongitude = &req.Location.Longitude
		data.CheckInAddress = req.Location.Address
	}

	result, err := a.attendanceRepo.Create(ctx, data)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	if lateness.IsLate {
		// Best-effort; a notification failure never fails the check-in.
		a.notifyLateArrival(ctx, result, nowLocal)
	}

	return attendance.CheckInResponse{
		AttendanceID: result.ID,
		Date:         dateLocal,
		CheckInTime:  nowLocal.Format("2006-01-02 15:04:05"),
		IsLate:       lateness.IsLate,
		MinutesLate:  lateness.MinutesLate,
	}, nil
}

func (a *AttendanceServiceImpl) notifyLateArrival(ctx context.Context, att attendance.Attendance, nowLocal time.Time) {
	emp, err := a.employeeRepo.GetByID(ctx, att.EmployeeID)
	if err != nil {
		slog.Warn("Late-arrival notification skipped: employee lookup failed",
			"employee_id", att.EmployeeID, "error", err)
		return
	}

	recipient := emp.ID
	if emp.UserID != nil {
		recipient = *emp.UserID
	}

	relatedID := att.ID
	_, err = a.dispatcher.CreateSafe(ctx, notification.CreateRequest{
		UserID:    recipient,
		Type:      notification.TypeLateArrival,
		Title:     "Late check-in recorded",
		Message:   fmt.Sprintf("You checked in %d minutes late at %s", att.MinutesLate, nowLocal.Format("15:04")),
		RelatedID: &relatedID,
	}, true, notification.DefaultDedupWindow)
	if err != nil {
		slog.Warn("Failed to send late-arrival notification",
			"employee_id", att.EmployeeID, "error", err)
	}

	admins, err := a.employeeRepo.ListAdmins(ctx)
	if err != nil {
		slog.Warn("Late-arrival admin notification skipped", "error", err)
		return
	}
	for _, admin := range admins {
		adminRecipient := admin.ID
		if admin.UserID != nil {
			adminRecipient = *admin.UserID
		}
		_, err := a.dispatcher.CreateSafe(ctx, notification.CreateRequest{
			UserID:    adminRecipient,
			Type:      notification.TypeLateArrival,
			Title:     "Employee checked in late",
			Message:   fmt.Sprintf("%s checked in %d minutes late", emp.FullName, att.MinutesLate),
			RelatedID: &relatedID,
		}, true, notification.DefaultDedupWindow)
		if err != nil {
			slog.Warn("Failed to notify admin of late arrival",
				"admin_id", admin.ID, "error", err)
		}
	}
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	nowUTC := a.clock.Now().UTC()
	nowLocal := nowUTC.In(a.loc)
	dateLocal := nowLocal.Format("2006-01-02")

	if !geofence.IsWorkingDay(nowLocal, a.policy.WorkingDays) {
		return attendance.CheckOutResponse{}, attendance.ErrNonWorkingDay
	}

	record, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, dateLocal)
	if err != nil {
		return attendance.CheckOutResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if record == nil || record.Status == attendance.StatusAbsent || record.CheckInTime == nil {
		return attendance.CheckOutResponse{}, attendance.ErrNotCheckedIn
	}
	if record.Status == attendance.StatusCheckedOut {
		return attendance.CheckOutResponse{}, attendance.ErrAlreadyCheckedOut
	}

	hours := nowUTC.Sub(*record.CheckInTime).Hours()
	notes := record.Notes
	if req.Notes != nil {
		notes = req.Notes
	}
	if hours < 0 {
		// Clock skew: floor to zero rather than persist a negative duration.
		hours = 0
		skewNote := "check-out time earlier than check-in; total hours clamped to 0"
		if notes != nil {
			skewNote = *notes + "; " + skewNote
		}
		notes = &skewNote
	}
	totalHours := math.Round(hours*100) / 100

	record.Status = attendance.StatusCheckedOut
	record.CheckOutTime = &nowUTC
	record.TotalHours = &totalHours
	record.Notes = notes
	if req.Location != nil {
		record.CheckOutLatitude = &req.Location.Latitude
		record.CheckOutLongitude = &req.Location.Longitude
		record.CheckOutAddress = req.Location.Address
	}

	if err := a.attendanceRepo.CompleteCheckout(ctx, *record); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	return attendance.CheckOutResponse{
		AttendanceID: record.ID,
		Date:         dateLocal,
		CheckOutTime: nowLocal.Format("2006-01-02 15:04:05"),
		TotalHours:   totalHours,
	}, nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, employeeID string) (*attendance.AttendanceResponse, error) {
	dateLocal := a.clock.Now().UTC().In(a.loc).Format("2006-01-02")

	record, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, dateLocal)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if record == nil {
		// No record yet: implicitly absent until check-in or sweep.
		return nil, nil
	}

	resp := a.mapToResponse(*record)
	return &resp, nil
}

// History implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) History(ctx context.Context, employeeID string, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.HistoryResponse{}, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	records, total, err := a.attendanceRepo.History(ctx, employeeID, filter)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to get attendance history: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, a.mapToResponse(rec))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.HistoryResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Records:    responses,
	}, nil
}

func (a *AttendanceServiceImpl) mapToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:                   att.ID,
		EmployeeID:           att.EmployeeID,
		EmployeeName:         att.EmployeeName,
		Date:                 att.Date.Format("2006-01-02"),
		Status:               att.Status,
		CheckInTime:          timePtrToString(att.CheckInTime, a.loc),
		CheckOutTime:         timePtrToString(att.CheckOutTime, a.loc),
		IsLate:               att.IsLate,
		MinutesLate:          att.MinutesLate,
		CheckInLatitude:      att.CheckInLatitude,
		CheckInLongitude:     att.CheckInLongitude,
		CheckInAddress:       att.CheckInAddress,
		CheckOutLatitude:     att.CheckOutLatitude,
		CheckOutLongitude:    att.CheckOutLongitude,
		CheckOutAddress:      att.CheckOutAddress,
		TotalHours:           att.TotalHours,
		CheckoutReminderSent: att.CheckoutReminderSent,
		Notes:                att.Notes,
	}
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	dispatcher notification.Dispatcher,
	policy config.AttendanceConfig,
	clk clock.Clock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		dispatcher:     dispatcher,
		policy:         policy,
		loc:            policy.Location(),
		clock:          clk,
	}
}
