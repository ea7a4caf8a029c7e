package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Cachi0001/Simplified-HRM-sub007/internal/domain/job"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type jobLogRepository struct {
	db *database.DB
}

// Claim implements job.LogRepository.
// The unique constraint on (job_name, run_date) makes the claim atomic
// across process instances: exactly one caller gets a row back.
func (r *jobLogRepository) Claim(ctx context.Context, jobName string, runDate string, startedAt time.Time) (string, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO job_execution_logs (job_name, run_date, status, start_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (job_name, run_date) DO NOTHING
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query, jobName, runDate, job.StatusStarted, startedAt).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Another instance already claimed this run.
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to claim job run: %w", err)
	}

	return id, true, nil
}

// Complete implements job.LogRepository.
func (r *jobLogRepository) Complete(ctx context.Context, id string, status job.ExecutionStatus, endTime time.Time, recordsProcessed int, metadata map[string]any) error {
	q := GetQuerier(ctx, r.db)

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal job metadata: %w", err)
	}

	query := `
		UPDATE job_execution_logs
		SET status = $1, end_time = $2, records_processed = $3, metadata = $4
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, status, endTime, recordsProcessed, metadataJSON, id)
	if err != nil {
		return fmt.Errorf("failed to complete job run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job execution log %s not found", id)
	}

	return nil
}

func NewJobLogRepository(db *database.DB) job.LogRepository {
	return &jobLogRepository{db: db}
}
