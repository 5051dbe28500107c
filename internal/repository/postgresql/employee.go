package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/DurgarajC07/hrms-saas/internal/domain/employee"
	"github.com/DurgarajC07/hrms-saas/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// employeeDirectory is the read-only projection of the externally owned
// employee table; the attendance core never writes to it.
type employeeDirectory struct {
	db              *database.DB
	defaultTimezone string
}

func NewEmployeeDirectory(db *database.DB, defaultTimezone string) employee.Directory {
	return &employeeDirectory{db: db, defaultTimezone: defaultTimezone}
}

// GetByID implements employee.Directory.
func (e *employeeDirectory) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, company_id, department_id, employee_code, full_name, job_title, shift_id, timezone
		FROM employees
		WHERE id = $1
	`

	var emp employee.Employee
	var timezone *string
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID, &emp.CompanyID, &emp.DepartmentID, &emp.EmployeeCode,
		&emp.FullName, &emp.JobTitle, &emp.ShiftID, &timezone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}

	emp.Timezone = e.defaultTimezone
	if timezone != nil && *timezone != "" {
		emp.Timezone = *timezone
	}

	return emp, nil
}
