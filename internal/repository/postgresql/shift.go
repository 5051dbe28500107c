package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/DurgarajC07/hrms-saas/internal/domain/shift"
	"github.com/DurgarajC07/hrms-saas/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.Repository {
	return &shiftRepository{db: db}
}

// GetByID implements shift.Repository.
func (s *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT id, company_id, name, code,
		       to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
		       late_grace_period, early_departure_grace, overtime_threshold,
		       break_duration, is_active
		FROM shifts
		WHERE id = $1
	`

	var sh shift.Shift
	err := q.QueryRow(ctx, query, id).Scan(
		&sh.ID, &sh.CompanyID, &sh.Name, &sh.Code,
		&sh.StartTime, &sh.EndTime,
		&sh.LateGracePeriod, &sh.EarlyDepartureGrace, &sh.OvertimeThreshold,
		&sh.BreakDuration, &sh.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift by ID: %w", err)
	}

	return sh, nil
}
