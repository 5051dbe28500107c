package postgresql

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/DurgarajC07/hrms-saas/internal/domain/attendance"
	"github.com/DurgarajC07/hrms-saas/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, company_id, employee_id, date,
	punch_in_time, punch_out_time, break_duration, total_hours, overtime_hours,
	punch_in_latitude, punch_in_longitude, punch_out_latitude, punch_out_longitude,
	status, is_late, late_minutes, early_departure, early_departure_minutes,
	manual_punch_in, manual_punch_out, adjusted_by, adjustment_reason, adjustment_date,
	requires_approval, approved_by, approved_at, approval_comments,
	created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.DailyAttendance, error) {
	var rec attendance.DailyAttendance
	err := row.Scan(
		&rec.ID, &rec.CompanyID, &rec.EmployeeID, &rec.Date,
		&rec.PunchInTime, &rec.PunchOutTime, &rec.BreakDuration, &rec.TotalHours, &rec.OvertimeHours,
		&rec.PunchInLatitude, &rec.PunchInLongitude, &rec.PunchOutLatitude, &rec.PunchOutLongitude,
		&rec.Status, &rec.IsLate, &rec.LateMinutes, &rec.EarlyDeparture, &rec.EarlyDepartureMinutes,
		&rec.ManualPunchIn, &rec.ManualPunchOut, &rec.AdjustedBy, &rec.AdjustmentReason, &rec.AdjustmentDate,
		&rec.RequiresApproval, &rec.ApprovedBy, &rec.ApprovedAt, &rec.ApprovalComments,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Create implements attendance.AttendanceRepository. The insert relies on
// the unique (employee_id, date) index: when a concurrent punch already
// created the day, ON CONFLICT DO NOTHING returns no row and the caller
// retries as an update against the winning row.
func (a *attendanceRepository) Create(ctx context.Context, rec attendance.DailyAttendance) (attendance.DailyAttendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			id, company_id, employee_id, date,
			punch_in_time, punch_out_time, break_duration, total_hours, overtime_hours,
			punch_in_latitude, punch_in_longitude, punch_out_latitude, punch_out_longitude,
			status, is_late, late_minutes, early_departure, early_departure_minutes,
			requires_approval
		) VALUES (
			gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
		)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.CompanyID,
		rec.EmployeeID,
		rec.Date,
		rec.PunchInTime,
		rec.PunchOutTime,
		rec.BreakDuration,
		rec.TotalHours,
		rec.OvertimeHours,
		rec.PunchInLatitude,
		rec.PunchInLongitude,
		rec.PunchOutLatitude,
		rec.PunchOutLongitude,
		rec.Status,
		rec.IsLate,
		rec.LateMinutes,
		rec.EarlyDeparture,
		rec.EarlyDepartureMinutes,
		rec.RequiresApproval,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.DailyAttendance{}, attendance.ErrDayAlreadyExists
		}
		return attendance.DailyAttendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return rec, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.DailyAttendance, error) {
	return a.getByID(ctx, id, companyID, "")
}

// GetByIDForUpdate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByIDForUpdate(ctx context.Context, id string, companyID string) (attendance.DailyAttendance, error) {
	return a.getByID(ctx, id, companyID, " FOR UPDATE")
}

func (a *attendanceRepository) getByID(ctx context.Context, id, companyID, lock string) (attendance.DailyAttendance, error) {
	q := GetQuerier(ctx, a.db)

	query := "SELECT " + attendanceColumns + " FROM attendances WHERE id = $1 AND company_id = $2" + lock

	rec, err := scanAttendance(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.DailyAttendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.DailyAttendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return rec, nil
}

// GetForUpdate implements attendance.AttendanceRepository. Row-level lock on
// the (employee_id, date) aggregate serializes concurrent punches for the
// same employee and day.
func (a *attendanceRepository) GetForUpdate(ctx context.Context, employeeID string, date time.Time) (*attendance.DailyAttendance, error) {
	return a.getByNaturalKey(ctx, employeeID, date, " FOR UPDATE")
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.DailyAttendance, error) {
	return a.getByNaturalKey(ctx, employeeID, date, "")
}

func (a *attendanceRepository) getByNaturalKey(ctx context.Context, employeeID string, date time.Time, lock string) (*attendance.DailyAttendance, error) {
	q := GetQuerier(ctx, a.db)

	query := "SELECT " + attendanceColumns + " FROM attendances WHERE employee_id = $1 AND date = $2" + lock

	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no record for this day yet
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &rec, nil
}

// Update implements attendance.AttendanceRepository. The caller always holds
// the full record (read under lock inside the same transaction), so this is
// a full-state update rather than the patch style used for partial DTOs.
func (a *attendanceRepository) Update(ctx context.Context, rec attendance.DailyAttendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			punch_in_time = $1, punch_out_time = $2, break_duration = $3,
			total_hours = $4, overtime_hours = $5,
			punch_in_latitude = $6, punch_in_longitude = $7,
			punch_out_latitude = $8, punch_out_longitude = $9,
			status = $10, is_late = $11, late_minutes = $12,
			early_departure = $13, early_departure_minutes = $14,
			manual_punch_in = $15, manual_punch_out = $16,
			adjusted_by = $17, adjustment_reason = $18, adjustment_date = $19,
			requires_approval = $20, approved_by = $21, approved_at = $22, approval_comments = $23,
			updated_at = NOW()
		WHERE id = $24
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		rec.PunchInTime, rec.PunchOutTime, rec.BreakDuration,
		rec.TotalHours, rec.OvertimeHours,
		rec.PunchInLatitude, rec.PunchInLongitude,
		rec.PunchOutLatitude, rec.PunchOutLongitude,
		rec.Status, rec.IsLate, rec.LateMinutes,
		rec.EarlyDeparture, rec.EarlyDepartureMinutes,
		rec.ManualPunchIn, rec.ManualPunchOut,
		rec.AdjustedBy, rec.AdjustmentReason, rec.AdjustmentDate,
		rec.RequiresApproval, rec.ApprovedBy, rec.ApprovedAt, rec.ApprovalComments,
		rec.ID,
	).Scan(&updatedID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to update attendance: %w", err)
	}

	return nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, startDate, endDate *time.Time, page, limit int) ([]attendance.DailyAttendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "employee_id = $1"
	args := []interface{}{employeeID}
	argIdx := 2

	if startDate != nil {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *startDate)
		argIdx++
	}
	if endDate != nil {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *endDate)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendances WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	selectQuery := fmt.Sprintf(
		"SELECT %s FROM attendances WHERE %s ORDER BY date DESC, id LIMIT $%d OFFSET $%d",
		attendanceColumns, baseWhere, argIdx, argIdx+1,
	)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.DailyAttendance
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, nil
}

// ListRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListRange(ctx context.Context, employeeID string, startDate, endDate time.Time) ([]attendance.DailyAttendance, error) {
	q := GetQuerier(ctx, a.db)

	query := "SELECT " + attendanceColumns + ` FROM attendances
		WHERE employee_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date`

	rows, err := q.Query(ctx, query, employeeID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance range: %w", err)
	}
	defer rows.Close()

	var records []attendance.DailyAttendance
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// GetTeamAttendance implements attendance.AttendanceRepository. Employees
// with no record for the date still appear, as absent.
func (a *attendanceRepository) GetTeamAttendance(ctx context.Context, companyID string, date time.Time, departmentID *string, page, limit int) ([]attendance.TeamAttendanceRow, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "e.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if departmentID != nil && *departmentID != "" {
		baseWhere += fmt.Sprintf(" AND e.department_id = $%d", argIdx)
		args = append(args, *departmentID)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM employees e WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count team attendance: %w", err)
	}

	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	dateIdx := argIdx
	args = append(args, date)
	argIdx++

	selectQuery := fmt.Sprintf(`
		SELECT
			e.id, e.full_name, e.employee_code, e.job_title,
			a.punch_in_time, a.punch_out_time, a.total_hours, a.status, a.is_late, a.late_minutes
		FROM employees e
		LEFT JOIN attendances a ON a.employee_id = e.id AND a.date = $%d
		WHERE %s
		ORDER BY e.full_name, e.id
		LIMIT $%d OFFSET $%d
	`, dateIdx, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query team attendance: %w", err)
	}
	defer rows.Close()

	dateStr := date.Format("2006-01-02")
	var result []attendance.TeamAttendanceRow
	for rows.Next() {
		var row attendance.TeamAttendanceRow
		var punchIn, punchOut *time.Time
		var totalHours *float64
		var status *string
		var isLate *bool
		var lateMinutes *int

		err := rows.Scan(
			&row.EmployeeID, &row.EmployeeName, &row.EmployeeCode, &row.JobTitle,
			&punchIn, &punchOut, &totalHours, &status, &isLate, &lateMinutes,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan team attendance row: %w", err)
		}

		row.Date = dateStr
		row.Status = string(attendance.StatusAbsent)
		if status != nil {
			row.Status = *status
		}
		if punchIn != nil {
			s := punchIn.UTC().Format(time.RFC3339)
			row.PunchInTime = &s
		}
		if punchOut != nil {
			s := punchOut.UTC().Format(time.RFC3339)
			row.PunchOutTime = &s
		}
		if totalHours != nil {
			row.TotalHours = math.Round(*totalHours*100) / 100
		}
		if isLate != nil {
			row.IsLate = *isLate
		}
		if lateMinutes != nil {
			row.LateMinutes = *lateMinutes
		}

		result = append(result, row)
	}

	return result, total, nil
}
