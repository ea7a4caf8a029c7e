package job

import (
	"time"
)

// ExecutionStatus is the lifecycle state of one job run.
type ExecutionStatus string

const (
	StatusStarted   ExecutionStatus = "started"
	StatusCompleted ExecutionStatus = "completed"
	StatusFailed    ExecutionStatus = "failed"
)

// ExecutionLog is an append-only audit and idempotency record: one row per
// (job name, run date) claim.
type ExecutionLog struct {
	ID               string
	JobName          string
	RunDate          time.Time // calendar day the run covers
	Status           ExecutionStatus
	StartTime        time.Time
	EndTime          *time.Time
	RecordsProcessed int
	Metadata         map[string]any
}
