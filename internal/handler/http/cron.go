package http

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/Cachi0001/Simplified-HRM-sub007/internal/config"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/handler/http/response"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/clock"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/cron"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/geofence"
)

// CronHandler exposes manual triggers for the scheduled jobs, guarded by the
// cron secret. External schedulers hit these when the in-process timer is not
// trusted to fire.
type CronHandler interface {
	TriggerCheckoutReminders(w http.ResponseWriter, r *http.Request)
	TriggerAbsenceSweep(w http.ResponseWriter, r *http.Request)
}

type cronHandlerImpl struct {
	jobs   *cron.AttendanceJobs
	secret string
	policy config.AttendanceConfig
	loc    *time.Location
	clock  clock.Clock
}

func NewCronHandler(jobs *cron.AttendanceJobs, secret string, policy config.AttendanceConfig, clk clock.Clock) CronHandler {
	return &cronHandlerImpl{
		jobs:   jobs,
		secret: secret,
		policy: policy,
		loc:    policy.Location(),
		clock:  clk,
	}
}

func (h *cronHandlerImpl) authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) == 1
}

// TriggerCheckoutReminders runs the reminder pass immediately, skipping the
// time-of-day window. Non-onsite days report a zero result without running.
func (h *cronHandlerImpl) TriggerCheckoutReminders(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		response.Unauthorized(w, "Invalid cron secret")
		return
	}

	nowLocal := h.clock.Now().UTC().In(h.loc)
	if !geofence.IsWorkingDay(nowLocal, h.policy.OnsiteDays) {
		response.Success(w, cron.ReminderResult{})
		return
	}

	result, err := h.jobs.RunCheckoutReminders(r.Context(), nowLocal.Format("2006-01-02"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// TriggerAbsenceSweep runs the absence sweep immediately, skipping the sweep
// hour gate. Non-working days report a zero result without running.
func (h *cronHandlerImpl) TriggerAbsenceSweep(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		response.Unauthorized(w, "Invalid cron secret")
		return
	}

	nowLocal := h.clock.Now().UTC().In(h.loc)
	if !geofence.IsWorkingDay(nowLocal, h.policy.WorkingDays) {
		response.Success(w, cron.SweepResult{})
		return
	}

	result, err := h.jobs.Sweep(r.Context(), nowLocal.Format("2006-01-02"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
