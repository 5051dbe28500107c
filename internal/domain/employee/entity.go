package employee

// Employee is the read-only directory projection the attendance core needs:
// who the employee belongs to, which shift applies, and which timezone
// their working day is measured in. The directory itself is owned by an
// external module.
type Employee struct {
	ID           string
	CompanyID    string
	DepartmentID *string
	EmployeeCode string
	FullName     string
	JobTitle     *string
	ShiftID      *string
	Timezone     string // IANA name, e.g. "Asia/Jakarta"
}
