package job

import (
	"context"
	"time"
)

// LogRepository persists job execution logs and arbitrates "already ran
// today" between instances. Claim is the atomic alternative to the old
// read-then-decide idempotency check: the (job_name, run_date) uniqueness
// constraint means exactly one caller wins the run.
type LogRepository interface {
	// Claim inserts a started row for (jobName, runDate). It returns the
	// log ID and true when this caller won the claim; ("", false, nil)
	// when another run already holds it.
	Claim(ctx context.Context, jobName string, runDate string, startedAt time.Time) (string, bool, error)

	// Complete finalizes a claimed run with its outcome.
	Complete(ctx context.Context, id string, status ExecutionStatus, endTime time.Time, recordsProcessed int, metadata map[string]any) error
}
