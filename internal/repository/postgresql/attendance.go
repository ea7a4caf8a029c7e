package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Cachi0001/Simplified-HRM-sub007/internal/domain/attendance"
	"github.com/Cachi0001/Simplified-HRM-sub007/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	id, employee_id, date, status, check_in_time, check_out_time,
	is_late, minutes_late,
	check_in_latitude, check_in_longitude, check_in_address,
	check_out_latitude, check_out_longitude, check_out_address,
	total_hours, checkout_reminder_sent, notes,
	created_at, updated_at
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.Status, &att.CheckInTime, &att.CheckOutTime,
		&att.IsLate, &att.MinutesLate,
		&att.CheckInLatitude, &att.CheckInLongitude, &att.CheckInAddress,
		&att.CheckOutLatitude, &att.CheckOutLongitude, &att.CheckOutAddress,
		&att.TotalHours, &att.CheckoutReminderSent, &att.Notes,
		&att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}

// Create implements attendance.AttendanceRepository.
// The unique constraint on (employee_id, date) owns the one-record-per-day
// invariant; a conflicting insert surfaces as ErrAlreadyCheckedIn.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			employee_id, date, status, check_in_time,
			is_late, minutes_late,
			check_in_latitude, check_in_longitude, check_in_address,
			checkout_reminder_sent, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.EmployeeID,
		att.Date,
		att.Status,
		att.CheckInTime,
		att.IsLate,
		att.MinutesLate,
		att.CheckInLatitude,
		att.CheckInLongitude,
		att.CheckInAddress,
		att.CheckoutReminderSent,
		att.Notes,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			// DO NOTHING fired: a record for this employee-day already exists.
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND date = $2
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No record for this employee-day yet
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// CompleteCheckout implements attendance.AttendanceRepository.
func (a *attendanceRepository) CompleteCheckout(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET status = $1,
		    check_out_time = $2,
		    check_out_latitude = $3,
		    check_out_longitude = $4,
		    check_out_address = $5,
		    total_hours = $6,
		    notes = $7,
		    updated_at = $8
		WHERE id = $9
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		att.Status,
		att.CheckOutTime,
		att.CheckOutLatitude,
		att.CheckOutLongitude,
		att.CheckOutAddress,
		att.TotalHours,
		att.Notes,
		time.Now(),
		att.ID,
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to complete checkout: %w", err)
	}

	return nil
}

// BulkCreateAbsences implements attendance.AttendanceRepository.
func (a *attendanceRepository) BulkCreateAbsences(ctx context.Context, records []attendance.Attendance) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	q := GetQuerier(ctx, a.db)

	valueStrings := make([]string, 0, len(records))
	valueArgs := make([]interface{}, 0, len(records)*4)

	for i, rec := range records {
		base := i * 4
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4,
		))
		valueArgs = append(valueArgs,
			rec.EmployeeID,
			rec.Date,
			rec.Status,
			rec.Notes,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO attendances (employee_id, date, status, notes)
		VALUES %s
		ON CONFLICT (employee_id, date) DO NOTHING
	`, strings.Join(valueStrings, ", "))

	tag, err := q.Exec(ctx, query, valueArgs...)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk create absences: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// ListEmployeeIDsWithRecord implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListEmployeeIDsWithRecord(ctx context.Context, date string) ([]string, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT employee_id FROM attendances WHERE date = $1`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees with attendance: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// ListAwaitingCheckoutReminder implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListAwaitingCheckoutReminder(ctx context.Context, date string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE date = $1
		  AND status = $2
		  AND check_out_time IS NULL
		  AND checkout_reminder_sent = false
		ORDER BY check_in_time
	`

	rows, err := q.Query(ctx, query, date, attendance.StatusCheckedIn)
	if err != nil {
		return nil, fmt.Errorf("failed to list records awaiting reminder: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}

	return records, rows.Err()
}

// MarkReminderSent implements attendance.AttendanceRepository.
func (a *attendanceRepository) MarkReminderSent(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET checkout_reminder_sent = true, updated_at = $1
		WHERE id = $2
	`

	tag, err := q.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// History implements attendance.AttendanceRepository.
func (a *attendanceRepository) History(ctx context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "employee_id = $1"
	args := []interface{}{employeeID}
	argIdx := 2

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM attendances WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendances
		WHERE %s
		ORDER BY date %s
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, total, rows.Err()
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
