package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Cachi0001/Simplified-HRM-sub007/internal/config"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/domain/attendance"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/domain/employee"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/domain/job"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/domain/notification"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/clock"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/email"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/geofence"
)

const (
	JobMarkAbsent       = "mark_absent_employees"
	JobCheckoutReminder = "send_checkout_reminders"
	JobCleanupExpired   = "cleanup_expired_notifications"

	// notifyConcurrency caps parallel per-employee notification work.
	notifyConcurrency = 5

	// emailTimeout bounds a single outbound email send.
	emailTimeout = 10 * time.Second
)

// SweepResult summarizes one absence sweep run.
type SweepResult struct {
	MarkedAbsent int      `json:"marked_absent"`
	Errors       []string `json:"errors,omitempty"`
}

// ReminderResult summarizes one checkout reminder run.
type ReminderResult struct {
	TotalEmployees    int      `json:"total_employees"`
	NotificationsSent int      `json:"notifications_sent"`
	EmailsSent        int      `json:"emails_sent"`
	Errors            []string `json:"errors,omitempty"`
}

// AttendanceJobs owns the scheduled attendance work: the end-of-day absence
// sweep, the checkout reminder pass and expired-notification cleanup. Jobs
// poll on an interval and gate themselves on wall-clock time; the job log's
// claim row keeps a day's run single-shot across instances.
type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	jobLogRepo     job.LogRepository
	dispatcher     notification.Dispatcher
	emailSvc       email.Service
	policy         config.AttendanceConfig
	loc            *time.Location
	clock          clock.Clock
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	jobLogRepo job.LogRepository,
	dispatcher notification.Dispatcher,
	emailSvc email.Service,
	policy config.AttendanceConfig,
	clk clock.Clock,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		jobLogRepo:     jobLogRepo,
		dispatcher:     dispatcher,
		emailSvc:       emailSvc,
		policy:         policy,
		loc:            policy.Location(),
		clock:          clk,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, cfg config.JobsConfig) {
	scheduler.AddJob(JobMarkAbsent, cfg.SweepPollInterval, j.MarkAbsentEmployees)
	scheduler.AddJob(JobCheckoutReminder, cfg.ReminderPollInterval, j.SendCheckoutReminders)
	scheduler.AddJob(JobCleanupExpired, cfg.CleanupInterval, j.CleanupExpiredNotifications)
}

// MarkAbsentEmployees is the scheduled entry point for the absence sweep.
// It runs only during the configured sweep hour on working days, and only
// once per day across all instances.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	nowLocal := j.clock.Now().UTC().In(j.loc)

	if !geofence.IsWorkingDay(nowLocal, j.policy.WorkingDays) {
		return nil
	}
	if nowLocal.Hour() != j.policy.SweepHour {
		return nil
	}

	date := nowLocal.Format("2006-01-02")
	logID, claimed, err := j.jobLogRepo.Claim(ctx, JobMarkAbsent, date, j.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to claim absence sweep run: %w", err)
	}
	if !claimed {
		return nil
	}

	slog.Info("Cron: Starting absence sweep", "date", date)

	result, err := j.Sweep(ctx, date)
	status := job.StatusCompleted
	if err != nil {
		status = job.StatusFailed
		result.Errors = append(result.Errors, err.Error())
	}

	metadata := map[string]any{"errors": result.Errors}
	if logErr := j.jobLogRepo.Complete(ctx, logID, status, j.clock.Now().UTC(), result.MarkedAbsent, metadata); logErr != nil {
		slog.Error("Cron: Failed to finalize absence sweep log", "error", logErr)
	}

	slog.Info("Cron: Absence sweep finished",
		"date", date,
		"marked_absent", result.MarkedAbsent,
		"errors", len(result.Errors))

	return err
}

// Sweep marks every active employee without an attendance record on the date
// as absent, then notifies them. Notification failures are isolated per
// employee and never undo the absence rows.
func (j *AttendanceJobs) Sweep(ctx context.Context, date string) (SweepResult, error) {
	var result SweepResult

	active, err := j.employeeRepo.ListActive(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list active employees: %w", err)
	}
	if len(active) == 0 {
		return result, nil
	}

	withRecord, err := j.attendanceRepo.ListEmployeeIDsWithRecord(ctx, date)
	if err != nil {
		return result, fmt.Errorf("failed to list recorded employees: %w", err)
	}
	recorded := make(map[string]struct{}, len(withRecord))
	for _, id := range withRecord {
		recorded[id] = struct{}{}
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return result, fmt.Errorf("invalid sweep date %q: %w", date, err)
	}

	var absentees []employee.Employee
	var records []attendance.Attendance
	for _, emp := range active {
		if _, ok := recorded[emp.ID]; ok {
			continue
		}
		absentees = append(absentees, emp)
		records = append(records, attendance.Attendance{
			EmployeeID: emp.ID,
			Date:       day,
			Status:     attendance.StatusAbsent,
		})
	}
	if len(records) == 0 {
		return result, nil
	}

	inserted, err := j.attendanceRepo.BulkCreateAbsences(ctx, records)
	if err != nil {
		return result, fmt.Errorf("failed to insert absence records: %w", err)
	}
	result.MarkedAbsent = inserted

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(notifyConcurrency)

	for _, emp := range absentees {
		g.Go(func() error {
			if err := j.notifyAbsence(gctx, emp, date); err != nil {
				mu.Lock()
				result.Errors = append(result.Errors, fmt.Sprintf("employee %s: %v", emp.ID, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return result, nil
}

func (j *AttendanceJobs) notifyAbsence(ctx context.Context, emp employee.Employee, date string) error {
	recipient := emp.ID
	if emp.UserID != nil {
		recipient = *emp.UserID
	}

	relatedID := date
	if _, err := j.dispatcher.CreateSafe(ctx, notification.CreateRequest{
		UserID:    recipient,
		Type:      notification.TypeAbsence,
		Title:     "Marked absent",
		Message:   fmt.Sprintf("You were marked absent for %s because no check-in was recorded", date),
		RelatedID: &relatedID,
	}, true, notification.DefaultDedupWindow); err != nil {
		return fmt.Errorf("notification: %w", err)
	}

	if emp.Email != "" {
		sendCtx, cancel := context.WithTimeout(ctx, emailTimeout)
		defer cancel()
		if err := j.emailSvc.SendAbsenceNotice(sendCtx, emp.Email, emp.FullName, date); err != nil {
			return fmt.Errorf("email: %w", err)
		}
	}

	return nil
}

// SendCheckoutReminders is the scheduled entry point for checkout reminders.
// It fires within the one-minute window of the configured reminder time on
// onsite days, claiming the day's run before doing any work.
func (j *AttendanceJobs) SendCheckoutReminders(ctx context.Context) error {
	nowLocal := j.clock.Now().UTC().In(j.loc)

	if !geofence.IsWorkingDay(nowLocal, j.policy.OnsiteDays) {
		return nil
	}
	if nowLocal.Format("15:04") != j.policy.ReminderTime {
		return nil
	}

	date := nowLocal.Format("2006-01-02")
	logID, claimed, err := j.jobLogRepo.Claim(ctx, JobCheckoutReminder, date, j.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to claim reminder run: %w", err)
	}
	if !claimed {
		return nil
	}

	slog.Info("Cron: Starting checkout reminders", "date", date)

	result, err := j.RunCheckoutReminders(ctx, date)
	status := job.StatusCompleted
	if err != nil {
		status = job.StatusFailed
		result.Errors = append(result.Errors, err.Error())
	}

	metadata := map[string]any{
		"notifications_sent": result.NotificationsSent,
		"emails_sent":        result.EmailsSent,
		"errors":             result.Errors,
	}
	if logErr := j.jobLogRepo.Complete(ctx, logID, status, j.clock.Now().UTC(), result.TotalEmployees, metadata); logErr != nil {
		slog.Error("Cron: Failed to finalize reminder log", "error", logErr)
	}

	slog.Info("Cron: Checkout reminders finished",
		"date", date,
		"total", result.TotalEmployees,
		"notifications", result.NotificationsSent,
		"emails", result.EmailsSent,
		"errors", len(result.Errors))

	return err
}

// RunCheckoutReminders reminds every employee still checked in on the date.
// Each record is marked reminded regardless of delivery outcome, so a retried
// run never re-nags someone whose notification already went out.
func (j *AttendanceJobs) RunCheckoutReminders(ctx context.Context, date string) (ReminderResult, error) {
	var result ReminderResult

	pending, err := j.attendanceRepo.ListAwaitingCheckoutReminder(ctx, date)
	if err != nil {
		return result, fmt.Errorf("failed to list pending checkouts: %w", err)
	}
	result.TotalEmployees = len(pending)
	if len(pending) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(notifyConcurrency)

	for _, rec := range pending {
		g.Go(func() error {
			sent, emailed, err := j.remindCheckout(gctx, rec)
			mu.Lock()
			if sent {
				result.NotificationsSent++
			}
			if emailed {
				result.EmailsSent++
			}
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("employee %s: %v", rec.EmployeeID, err))
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return result, nil
}

func (j *AttendanceJobs) remindCheckout(ctx context.Context, rec attendance.Attendance) (notified bool, emailed bool, err error) {
	emp, err := j.employeeRepo.GetByID(ctx, rec.EmployeeID)
	if err != nil {
		return false, false, fmt.Errorf("employee lookup: %w", err)
	}

	checkInAt := ""
	if rec.CheckInTime != nil {
		checkInAt = rec.CheckInTime.In(j.loc).Format("15:04")
	}

	recipient := emp.ID
	if emp.UserID != nil {
		recipient = *emp.UserID
	}

	var errs []error

	relatedID := rec.ID
	n, nerr := j.dispatcher.CreateSafe(ctx, notification.CreateRequest{
		UserID:    recipient,
		Type:      notification.TypeCheckout,
		Title:     "Don't forget to check out",
		Message:   fmt.Sprintf("You checked in at %s and haven't checked out yet", checkInAt),
		RelatedID: &relatedID,
	}, true, notification.DefaultDedupWindow)
	if nerr != nil {
		errs = append(errs, fmt.Errorf("notification: %w", nerr))
	} else if n != nil {
		notified = true
	}

	if emp.Email != "" {
		sendCtx, cancel := context.WithTimeout(ctx, emailTimeout)
		if merr := j.emailSvc.SendCheckoutReminder(sendCtx, emp.Email, emp.FullName, checkInAt); merr != nil {
			errs = append(errs, fmt.Errorf("email: %w", merr))
		} else {
			emailed = true
		}
		cancel()
	}

	// Flag the record even when delivery failed; a stuck flag is better
	// than a reminder loop.
	if merr := j.attendanceRepo.MarkReminderSent(ctx, rec.ID); merr != nil {
		errs = append(errs, fmt.Errorf("mark reminded: %w", merr))
	}

	if len(errs) > 0 {
		return notified, emailed, errs[0]
	}
	return notified, emailed, nil
}

// CleanupExpiredNotifications removes notifications past their expiry window.
func (j *AttendanceJobs) CleanupExpiredNotifications(ctx context.Context) error {
	deleted, err := j.dispatcher.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete expired notifications: %w", err)
	}
	if deleted > 0 {
		slog.Info("Cron: Deleted expired notifications", "count", deleted)
	}
	return nil
}
