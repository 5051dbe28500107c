package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for the daily aggregates.
type AttendanceRepository interface {
	// Create inserts a new day row. Returns ErrDayAlreadyExists when the
	// unique (employee_id, date) key was taken by a concurrent insert.
	Create(ctx context.Context, record DailyAttendance) (DailyAttendance, error)

	// GetByID retrieves a record by ID with company isolation.
	GetByID(ctx context.Context, id string, companyID string) (DailyAttendance, error)

	// GetByIDForUpdate is GetByID holding a row lock; only valid inside a
	// transaction.
	GetByIDForUpdate(ctx context.Context, id string, companyID string) (DailyAttendance, error)

	// GetForUpdate retrieves the day row by its natural key holding a row
	// lock; returns nil when the day has no record yet. Only valid inside a
	// transaction.
	GetForUpdate(ctx context.Context, employeeID string, date time.Time) (*DailyAttendance, error)

	// GetByEmployeeAndDate is the lock-free natural-key read.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*DailyAttendance, error)

	// Update persists the full mutable state of the record.
	Update(ctx context.Context, record DailyAttendance) error

	// ListByEmployee pages an employee's records, newest first.
	ListByEmployee(ctx context.Context, employeeID string, startDate, endDate *time.Time, page, limit int) ([]DailyAttendance, int64, error)

	// ListRange returns every record in [startDate, endDate] ordered by
	// date; used by the statistics scan.
	ListRange(ctx context.Context, employeeID string, startDate, endDate time.Time) ([]DailyAttendance, error)

	// GetTeamAttendance joins the employee directory with the daily records
	// for one date, paginated with stable ordering.
	GetTeamAttendance(ctx context.Context, companyID string, date time.Time, departmentID *string, page, limit int) ([]TeamAttendanceRow, int64, error)
}

// PunchEventRepository is the append-only audit trail. No update or delete
// methods exist on purpose.
type PunchEventRepository interface {
	Create(ctx context.Context, event PunchEvent) (PunchEvent, error)

	// GetLastOfType returns the most recent event of the given type for one
	// daily record, or nil when none exists. Used to pair break_end with
	// its break_start.
	GetLastOfType(ctx context.Context, attendanceID string, punchType PunchType) (*PunchEvent, error)

	// ListByEmployee pages an employee's audit trail, newest first.
	ListByEmployee(ctx context.Context, employeeID string, startTime, endTime *time.Time, page, limit int) ([]PunchEvent, int64, error)
}
