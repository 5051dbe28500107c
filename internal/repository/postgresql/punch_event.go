package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DurgarajC07/hrms-saas/internal/domain/attendance"
	"github.com/DurgarajC07/hrms-saas/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// punchEventRepository is append-only: rows are inserted once and never
// touched again.
type punchEventRepository struct {
	db *database.DB
}

func NewPunchEventRepository(db *database.DB) attendance.PunchEventRepository {
	return &punchEventRepository{db: db}
}

const punchEventColumns = `
	id, attendance_id, employee_id, punch_type, punch_time,
	latitude, longitude, device_info, ip_address,
	is_valid_location, distance_from_office, created_at`

func scanPunchEvent(row pgx.Row) (attendance.PunchEvent, error) {
	var ev attendance.PunchEvent
	err := row.Scan(
		&ev.ID, &ev.AttendanceID, &ev.EmployeeID, &ev.PunchType, &ev.PunchTime,
		&ev.Latitude, &ev.Longitude, &ev.DeviceInfo, &ev.IPAddress,
		&ev.IsValidLocation, &ev.DistanceFromOffice, &ev.CreatedAt,
	)
	return ev, err
}

// Create implements attendance.PunchEventRepository.
func (p *punchEventRepository) Create(ctx context.Context, event attendance.PunchEvent) (attendance.PunchEvent, error) {
	q := GetQuerier(ctx, p.db)

	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	query := `
		INSERT INTO punch_events (
			id, attendance_id, employee_id, punch_type, punch_time,
			latitude, longitude, device_info, ip_address,
			is_valid_location, distance_from_office
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		event.ID,
		event.AttendanceID,
		event.EmployeeID,
		event.PunchType,
		event.PunchTime,
		event.Latitude,
		event.Longitude,
		event.DeviceInfo,
		event.IPAddress,
		event.IsValidLocation,
		event.DistanceFromOffice,
	).Scan(&event.CreatedAt)

	if err != nil {
		return attendance.PunchEvent{}, fmt.Errorf("failed to create punch event: %w", err)
	}

	return event, nil
}

// GetLastOfType implements attendance.PunchEventRepository.
func (p *punchEventRepository) GetLastOfType(ctx context.Context, attendanceID string, punchType attendance.PunchType) (*attendance.PunchEvent, error) {
	q := GetQuerier(ctx, p.db)

	query := "SELECT " + punchEventColumns + ` FROM punch_events
		WHERE attendance_id = $1 AND punch_type = $2
		ORDER BY punch_time DESC
		LIMIT 1`

	ev, err := scanPunchEvent(q.QueryRow(ctx, query, attendanceID, punchType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last punch event: %w", err)
	}

	return &ev, nil
}

// ListByEmployee implements attendance.PunchEventRepository.
func (p *punchEventRepository) ListByEmployee(ctx context.Context, employeeID string, startTime, endTime *time.Time, page, limit int) ([]attendance.PunchEvent, int64, error) {
	q := GetQuerier(ctx, p.db)

	baseWhere := "employee_id = $1"
	args := []interface{}{employeeID}
	argIdx := 2

	if startTime != nil {
		baseWhere += fmt.Sprintf(" AND punch_time >= $%d", argIdx)
		args = append(args, *startTime)
		argIdx++
	}
	if endTime != nil {
		baseWhere += fmt.Sprintf(" AND punch_time <= $%d", argIdx)
		args = append(args, *endTime)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM punch_events WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count punch events: %w", err)
	}

	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	selectQuery := fmt.Sprintf(
		"SELECT %s FROM punch_events WHERE %s ORDER BY punch_time DESC, id LIMIT $%d OFFSET $%d",
		punchEventColumns, baseWhere, argIdx, argIdx+1,
	)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query punch events: %w", err)
	}
	defer rows.Close()

	var events []attendance.PunchEvent
	for rows.Next() {
		ev, err := scanPunchEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan punch event: %w", err)
		}
		events = append(events, ev)
	}

	return events, total, nil
}
