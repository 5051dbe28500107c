package attendance

import (
	"time"
)

// Status is the day-level attendance status.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusOnLeave Status = "on_leave"
	StatusHoliday Status = "holiday"
	StatusWeekend Status = "weekend"
)

// PunchType identifies a single presence event.
type PunchType string

const (
	PunchIn    PunchType = "punch_in"
	PunchOut   PunchType = "punch_out"
	BreakStart PunchType = "break_start"
	BreakEnd   PunchType = "break_end"
)

// DailyAttendance is the mutable per-(employee, date) aggregate. One row per
// employee per calendar day; never deleted.
type DailyAttendance struct {
	ID         string
	CompanyID  string
	EmployeeID string
	Date       time.Time

	// Time tracking
	PunchInTime   *time.Time
	PunchOutTime  *time.Time
	BreakDuration int // minutes
	TotalHours    float64
	OvertimeHours float64

	// Location of the effective punches
	PunchInLatitude   *float64
	PunchInLongitude  *float64
	PunchOutLatitude  *float64
	PunchOutLongitude *float64

	// Status and derived flags
	Status                Status
	IsLate                bool
	LateMinutes           int
	EarlyDeparture        bool
	EarlyDepartureMinutes int

	// Manual adjustments
	ManualPunchIn    *time.Time
	ManualPunchOut   *time.Time
	AdjustedBy       *string
	AdjustmentReason *string
	AdjustmentDate   *time.Time

	// Approval workflow
	RequiresApproval bool
	ApprovedBy       *string
	ApprovedAt       *time.Time
	ApprovalComments *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PunchEvent is one append-only audit row. Many events reference one
// DailyAttendance; events are never updated or deleted.
type PunchEvent struct {
	ID           string
	AttendanceID string
	EmployeeID   string
	PunchType    PunchType
	PunchTime    time.Time

	Latitude   *float64
	Longitude  *float64
	DeviceInfo *string
	IPAddress  *string

	IsValidLocation    bool
	DistanceFromOffice *float64 // meters; nil when no coordinates were supplied

	CreatedAt time.Time
}
