package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cachi0001/Simplified-HRM-sub007/internal/config"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/domain/attendance"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/domain/employee"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/domain/job"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/domain/notification"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/clock"
)

// ===== FAKES =====

type fakeAttendanceRepo struct {
	mu           sync.Mutex
	withRecord   []string
	pending      []attendance.Attendance
	bulkCreated  []attendance.Attendance
	reminderSent []string
	bulkErr      error
	listPendErr  error
	markSentErr  error
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	return att, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date string) (*attendance.Attendance, error) {
	return nil, nil
}

func (f *fakeAttendanceRepo) CompleteCheckout(ctx context.Context, att attendance.Attendance) error {
	return nil
}

func (f *fakeAttendanceRepo) BulkCreateAbsences(ctx context.Context, records []attendance.Attendance) (int, error) {
	if f.bulkErr != nil {
		return 0, f.bulkErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkCreated = append(f.bulkCreated, records...)
	return len(records), nil
}

func (f *fakeAttendanceRepo) ListEmployeeIDsWithRecord(ctx context.Context, date string) ([]string, error) {
	return f.withRecord, nil
}

func (f *fakeAttendanceRepo) ListAwaitingCheckoutReminder(ctx context.Context, date string) ([]attendance.Attendance, error) {
	if f.listPendErr != nil {
		return nil, f.listPendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Attendance
	sent := make(map[string]struct{}, len(f.reminderSent))
	for _, id := range f.reminderSent {
		sent[id] = struct{}{}
	}
	for _, rec := range f.pending {
		if _, ok := sent[rec.ID]; !ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) MarkReminderSent(ctx context.Context, id string) error {
	if f.markSentErr != nil {
		return f.markSentErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminderSent = append(f.reminderSent, id)
	return nil
}

func (f *fakeAttendanceRepo) History(ctx context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	return nil, 0, nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, emp := range f.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		if emp.IsActive {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListAdmins(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		if emp.IsAdmin {
			out = append(out, emp)
		}
	}
	return out, nil
}

type fakeJobLog struct {
	mu        sync.Mutex
	claims    map[string]string
	completed map[string]job.ExecutionStatus
	nextID    int
}

func newFakeJobLog() *fakeJobLog {
	return &fakeJobLog{
		claims:    make(map[string]string),
		completed: make(map[string]job.ExecutionStatus),
	}
}

func (f *fakeJobLog) Claim(ctx context.Context, jobName string, runDate string, startedAt time.Time) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := jobName + "|" + runDate
	if _, ok := f.claims[key]; ok {
		return "", false, nil
	}
	f.nextID++
	id := jobName + "-" + runDate
	f.claims[key] = id
	return id, true, nil
}

func (f *fakeJobLog) Complete(ctx context.Context, id string, status job.ExecutionStatus, endTime time.Time, recordsProcessed int, metadata map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed[id] = status
	return nil
}

type fakeDispatcher struct {
	mu        sync.Mutex
	created   []notification.CreateRequest
	failFor   map[string]error
	deleted   int64
	deleteErr error
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{failFor: make(map[string]error)}
}

func (f *fakeDispatcher) Create(ctx context.Context, req notification.CreateRequest) (*notification.Notification, error) {
	if err, ok := f.failFor[req.UserID]; ok {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	return &notification.Notification{ID: "n-" + req.UserID, UserID: req.UserID, Type: req.Type}, nil
}

func (f *fakeDispatcher) CheckConflict(ctx context.Context, userID string, t notification.Type, relatedID *string, window time.Duration) (bool, error) {
	return false, nil
}

func (f *fakeDispatcher) CreateSafe(ctx context.Context, req notification.CreateRequest, preventDuplicates bool, window time.Duration) (*notification.Notification, error) {
	return f.Create(ctx, req)
}

func (f *fakeDispatcher) SendBatch(ctx context.Context, reqs []notification.CreateRequest) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, reqs...)
	return len(reqs), nil
}

func (f *fakeDispatcher) List(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*notification.ListResponse, error) {
	return &notification.ListResponse{}, nil
}

func (f *fakeDispatcher) UnreadCount(ctx context.Context, userID string) (int, error) { return 0, nil }

func (f *fakeDispatcher) MarkRead(ctx context.Context, userID string, notificationID string) error {
	return nil
}

func (f *fakeDispatcher) MarkAllRead(ctx context.Context, userID string) error { return nil }

func (f *fakeDispatcher) Delete(ctx context.Context, userID string, notificationID string) error {
	return nil
}

func (f *fakeDispatcher) DeleteExpired(ctx context.Context) (int64, error) {
	return f.deleted, f.deleteErr
}

func (f *fakeDispatcher) Subscribe(ctx context.Context, userID string) (<-chan notification.NotificationResponse, func()) {
	ch := make(chan notification.NotificationResponse)
	return ch, func() {}
}

func (f *fakeDispatcher) createdFor(userID string) []notification.CreateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []notification.CreateRequest
	for _, req := range f.created {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out
}

type fakeEmailService struct {
	mu        sync.Mutex
	reminders []string
	absences  []string
	failFor   map[string]error
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{failFor: make(map[string]error)}
}

func (f *fakeEmailService) SendCheckoutReminder(ctx context.Context, to, employeeName, checkInTime string) error {
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders = append(f.reminders, to)
	return nil
}

func (f *fakeEmailService) SendAbsenceNotice(ctx context.Context, to, employeeName, date string) error {
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.absences = append(f.absences, to)
	return nil
}

// ===== HELPERS =====

func testPolicy() config.AttendanceConfig {
	weekdays := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	}
	return config.AttendanceConfig{
		OfficeLatitude:     6.5244,
		OfficeLongitude:    3.3792,
		OfficeRadiusMeters: 100,
		WorkingDays:        weekdays,
		WorkStart:          "09:00",
		LateThresholdMins:  5,
		OnsiteDays:         weekdays,
		ReminderTime:       "17:00",
		SweepHour:          20,
		Timezone:           "UTC",
	}
}

func newJobsForTest(
	attRepo *fakeAttendanceRepo,
	empRepo *fakeEmployeeRepo,
	jobLog *fakeJobLog,
	dispatcher *fakeDispatcher,
	emailSvc *fakeEmailService,
	clk clock.Clock,
) *AttendanceJobs {
	return NewAttendanceJobs(attRepo, empRepo, jobLog, dispatcher, emailSvc, testPolicy(), clk)
}

func testEmployees() []employee.Employee {
	return []employee.Employee{
		{ID: "emp-1", FullName: "Ada Obi", Email: "ada@example.com", IsActive: true},
		{ID: "emp-2", FullName: "Bola Eze", Email: "bola@example.com", IsActive: true},
		{ID: "emp-3", FullName: "Chidi Okeke", Email: "chidi@example.com", IsActive: true},
		{ID: "emp-4", FullName: "Former Staff", Email: "gone@example.com", IsActive: false},
	}
}

// 2026-01-05 is a Monday.
func mondayAt(hour, minute int) time.Time {
	return time.Date(2026, 1, 5, hour, minute, 0, 0, time.UTC)
}

// ===== ABSENCE SWEEP TESTS =====

func TestAttendanceJobs_Sweep_MarksAbsenteesAndNotifies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	attRepo := &fakeAttendanceRepo{withRecord: []string{"emp-1"}}
	empRepo := &fakeEmployeeRepo{employees: testEmployees()}
	dispatcher := newFakeDispatcher()
	emailSvc := newFakeEmailService()
	jobs := newJobsForTest(attRepo, empRepo, newFakeJobLog(), dispatcher, emailSvc, clock.NewFixed(mondayAt(20, 5)))

	result, err := jobs.Sweep(ctx, "2026-01-05")

	require.NoError(t, err)
	assert.Equal(t, 2, result.MarkedAbsent)
	assert.Empty(t, result.Errors)

	// Only emp-2 and emp-3: emp-1 has a record, emp-4 is inactive
	assert.Len(t, attRepo.bulkCreated, 2)
	for _, rec := range attRepo.bulkCreated {
		assert.Equal(t, attendance.StatusAbsent, rec.Status)
		assert.NotEqual(t, "emp-1", rec.EmployeeID)
		assert.NotEqual(t, "emp-4", rec.EmployeeID)
	}

	assert.Len(t, dispatcher.createdFor("emp-2"), 1)
	assert.Len(t, dispatcher.createdFor("emp-3"), 1)
	assert.Empty(t, dispatcher.createdFor("emp-1"))
	assert.ElementsMatch(t, []string{"bola@example.com", "chidi@example.com"}, emailSvc.absences)
}

func TestAttendanceJobs_Sweep_NotificationFailureIsIsolated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	attRepo := &fakeAttendanceRepo{withRecord: []string{"emp-1"}}
	empRepo := &fakeEmployeeRepo{employees: testEmployees()}
	dispatcher := newFakeDispatcher()
	dispatcher.failFor["emp-2"] = errors.New("store unavailable")
	emailSvc := newFakeEmailService()
	jobs := newJobsForTest(attRepo, empRepo, newFakeJobLog(), dispatcher, emailSvc, clock.NewFixed(mondayAt(20, 5)))

	result, err := jobs.Sweep(ctx, "2026-01-05")

	require.NoError(t, err)
	assert.Equal(t, 2, result.MarkedAbsent)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "emp-2")

	// emp-3 still notified despite emp-2's failure
	assert.Len(t, dispatcher.createdFor("emp-3"), 1)
}

func TestAttendanceJobs_Sweep_NoAbsentees(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	attRepo := &fakeAttendanceRepo{withRecord: []string{"emp-1", "emp-2", "emp-3"}}
	empRepo := &fakeEmployeeRepo{employees: testEmployees()}
	dispatcher := newFakeDispatcher()
	jobs := newJobsForTest(attRepo, empRepo, newFakeJobLog(), dispatcher, newFakeEmailService(), clock.NewFixed(mondayAt(20, 5)))

	result, err := jobs.Sweep(ctx, "2026-01-05")

	require.NoError(t, err)
	assert.Zero(t, result.MarkedAbsent)
	assert.Empty(t, attRepo.bulkCreated)
	assert.Empty(t, dispatcher.created)
}

func TestAttendanceJobs_MarkAbsentEmployees_GatedByHour(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	attRepo := &fakeAttendanceRepo{}
	empRepo := &fakeEmployeeRepo{employees: testEmployees()}
	jobLog := newFakeJobLog()
	jobs := newJobsForTest(attRepo, empRepo, jobLog, newFakeDispatcher(), newFakeEmailService(), clock.NewFixed(mondayAt(14, 0)))

	err := jobs.MarkAbsentEmployees(ctx)

	require.NoError(t, err)
	assert.Empty(t, jobLog.claims)
	assert.Empty(t, attRepo.bulkCreated)
}

func TestAttendanceJobs_MarkAbsentEmployees_SkipsNonWorkingDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// 2026-01-03 is a Saturday
	saturday := time.Date(2026, 1, 3, 20, 0, 0, 0, time.UTC)
	attRepo := &fakeAttendanceRepo{}
	jobLog := newFakeJobLog()
	jobs := newJobsForTest(attRepo, &fakeEmployeeRepo{employees: testEmployees()}, jobLog, newFakeDispatcher(), newFakeEmailService(), clock.NewFixed(saturday))

	err := jobs.MarkAbsentEmployees(ctx)

	require.NoError(t, err)
	assert.Empty(t, jobLog.claims)
}

func TestAttendanceJobs_MarkAbsentEmployees_RunsOncePerDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	attRepo := &fakeAttendanceRepo{}
	empRepo := &fakeEmployeeRepo{employees: testEmployees()}
	jobLog := newFakeJobLog()
	dispatcher := newFakeDispatcher()
	jobs := newJobsForTest(attRepo, empRepo, jobLog, dispatcher, newFakeEmailService(), clock.NewFixed(mondayAt(20, 0)))

	require.NoError(t, jobs.MarkAbsentEmployees(ctx))
	firstCount := len(attRepo.bulkCreated)

	// Second tick within the same hour: claim already held
	require.NoError(t, jobs.MarkAbsentEmployees(ctx))

	assert.Equal(t, firstCount, len(attRepo.bulkCreated))
	assert.Len(t, jobLog.claims, 1)
	assert.Equal(t, job.StatusCompleted, jobLog.completed["mark_absent_employees-2026-01-05"])
}

// ===== CHECKOUT REMINDER TESTS =====

func pendingCheckIn(id, employeeID string, checkIn time.Time) attendance.Attendance {
	return attendance.Attendance{
		ID:          id,
		EmployeeID:  employeeID,
		Date:        time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC),
		Status:      attendance.StatusCheckedIn,
		CheckInTime: &checkIn,
	}
}

func TestAttendanceJobs_SendCheckoutReminders_OutsideWindowDoesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	attRepo := &fakeAttendanceRepo{
		pending: []attendance.Attendance{pendingCheckIn("att-1", "emp-1", mondayAt(9, 0))},
	}
	jobLog := newFakeJobLog()
	jobs := newJobsForTest(attRepo, &fakeEmployeeRepo{employees: testEmployees()}, jobLog, newFakeDispatcher(), newFakeEmailService(), clock.NewFixed(mondayAt(16, 30)))

	err := jobs.SendCheckoutReminders(ctx)

	require.NoError(t, err)
	assert.Empty(t, jobLog.claims)
	assert.Empty(t, attRepo.reminderSent)
}

func TestAttendanceJobs_SendCheckoutReminders_SendsAtReminderTime(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	attRepo := &fakeAttendanceRepo{
		pending: []attendance.Attendance{
			pendingCheckIn("att-1", "emp-1", mondayAt(9, 0)),
			pendingCheckIn("att-2", "emp-2", mondayAt(9, 30)),
		},
	}
	dispatcher := newFakeDispatcher()
	emailSvc := newFakeEmailService()
	jobLog := newFakeJobLog()
	jobs := newJobsForTest(attRepo, &fakeEmployeeRepo{employees: testEmployees()}, jobLog, dispatcher, emailSvc, clock.NewFixed(mondayAt(17, 0)))

	err := jobs.SendCheckoutReminders(ctx)

	require.NoError(t, err)
	assert.Len(t, dispatcher.created, 2)
	assert.ElementsMatch(t, []string{"att-1", "att-2"}, attRepo.reminderSent)
	assert.ElementsMatch(t, []string{"ada@example.com", "bola@example.com"}, emailSvc.reminders)
	assert.Equal(t, job.StatusCompleted, jobLog.completed["send_checkout_reminders-2026-01-05"])
}

func TestAttendanceJobs_SendCheckoutReminders_SecondRunSendsNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	attRepo := &fakeAttendanceRepo{
		pending: []attendance.Attendance{pendingCheckIn("att-1", "emp-1", mondayAt(9, 0))},
	}
	dispatcher := newFakeDispatcher()
	jobLog := newFakeJobLog()
	jobs := newJobsForTest(attRepo, &fakeEmployeeRepo{employees: testEmployees()}, jobLog, dispatcher, newFakeEmailService(), clock.NewFixed(mondayAt(17, 0)))

	require.NoError(t, jobs.SendCheckoutReminders(ctx))
	require.Len(t, dispatcher.created, 1)

	// Same-minute retry loses the claim
	require.NoError(t, jobs.SendCheckoutReminders(ctx))
	assert.Len(t, dispatcher.created, 1)
	assert.Len(t, jobLog.claims, 1)
}

func TestAttendanceJobs_RunCheckoutReminders_MarksRecordOnEmailFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	attRepo := &fakeAttendanceRepo{
		pending: []attendance.Attendance{pendingCheckIn("att-1", "emp-1", mondayAt(9, 0))},
	}
	emailSvc := newFakeEmailService()
	emailSvc.failFor["ada@example.com"] = errors.New("smtp down")
	dispatcher := newFakeDispatcher()
	jobs := newJobsForTest(attRepo, &fakeEmployeeRepo{employees: testEmployees()}, newFakeJobLog(), dispatcher, emailSvc, clock.NewFixed(mondayAt(17, 0)))

	result, err := jobs.RunCheckoutReminders(ctx, "2026-01-05")

	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalEmployees)
	assert.Equal(t, 1, result.NotificationsSent)
	assert.Zero(t, result.EmailsSent)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "email")

	// The record is still flagged so the employee is not re-nagged
	assert.Equal(t, []string{"att-1"}, attRepo.reminderSent)
}

// ===== CLEANUP TESTS =====

func TestAttendanceJobs_CleanupExpiredNotifications(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dispatcher := newFakeDispatcher()
	dispatcher.deleted = 7
	jobs := newJobsForTest(&fakeAttendanceRepo{}, &fakeEmployeeRepo{}, newFakeJobLog(), dispatcher, newFakeEmailService(), clock.NewFixed(mondayAt(0, 0)))

	err := jobs.CleanupExpiredNotifications(ctx)

	require.NoError(t, err)
}

func TestAttendanceJobs_CleanupExpiredNotifications_Error(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dispatcher := newFakeDispatcher()
	dispatcher.deleteErr = errors.New("store unavailable")
	jobs := newJobsForTest(&fakeAttendanceRepo{}, &fakeEmployeeRepo{}, newFakeJobLog(), dispatcher, newFakeEmailService(), clock.NewFixed(mondayAt(0, 0)))

	err := jobs.CleanupExpiredNotifications(ctx)

	require.Error(t, err)
}
