package attendance

import (
	"time"

	"github.com/DurgarajC07/hrms-saas/internal/pkg/validator"
)

// ========================================
// PUNCH DTOs
// ========================================

var validPunchTypes = []string{
	string(PunchIn), string(PunchOut), string(BreakStart), string(BreakEnd),
}

type PunchRequest struct {
	EmployeeID string    `json:"-"` // from token claims
	PunchType  PunchType `json:"punch_type"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	DeviceInfo *string   `json:"device_info,omitempty"`
	IPAddress  *string   `json:"-"` // from the connection
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !validator.IsInSlice(string(r.PunchType), validPunchTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "punch_type",
			Message: "punch_type must be one of: punch_in, punch_out, break_start, break_end",
		})
	}

	// Coordinates are optional but must come in pairs and in range.
	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude and longitude must be provided together",
		})
	}
	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PunchResponse struct {
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	PunchTime     time.Time `json:"punch_time"`
	LocationValid bool      `json:"location_valid"`
}

// ========================================
// ADJUSTMENT & APPROVAL DTOs
// ========================================

var adjustableStatuses = []string{
	string(StatusPresent), string(StatusAbsent), string(StatusLate),
	string(StatusHalfDay), string(StatusOnLeave), string(StatusHoliday),
	string(StatusWeekend),
}

type AdjustRequest struct {
	AttendanceID   string  `json:"attendance_id"`
	CompanyID      string  `json:"-"` // from token claims
	AdjusterID     string  `json:"-"` // from token claims
	ManualPunchIn  *string `json:"manual_punch_in,omitempty"`  // RFC3339
	ManualPunchOut *string `json:"manual_punch_out,omitempty"` // RFC3339
	Reason         string  `json:"reason"`
	Status         *string `json:"status,omitempty"`
}

func (r *AdjustRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AttendanceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id is required",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "adjustment reason is required",
		})
	}

	if r.ManualPunchIn != nil {
		if _, ok := validator.IsValidDateTime(*r.ManualPunchIn); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "manual_punch_in",
				Message: "manual_punch_in must be an RFC3339 timestamp",
			})
		}
	}
	if r.ManualPunchOut != nil {
		if _, ok := validator.IsValidDateTime(*r.ManualPunchOut); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "manual_punch_out",
				Message: "manual_punch_out must be an RFC3339 timestamp",
			})
		}
	}

	if r.Status != nil && !validator.IsInSlice(*r.Status, adjustableStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, absent, late, half_day, on_leave, holiday, weekend",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ApproveRequest struct {
	AttendanceID string  `json:"-"` // from the URL
	CompanyID    string  `json:"-"` // from token claims
	ApproverID   string  `json:"-"` // from token claims
	Comments     *string `json:"comments,omitempty"`
}

type RejectRequest struct {
	AttendanceID string `json:"-"` // from the URL
	CompanyID    string `json:"-"` // from token claims
	ReviewerID   string `json:"-"` // from token claims
	Reason       string `json:"reason"`
}

func (r *RejectRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "rejection reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// READ DTOs
// ========================================

type AttendanceResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`

	PunchInTime   *string `json:"punch_in_time,omitempty"`
	PunchOutTime  *string `json:"punch_out_time,omitempty"`
	BreakDuration int     `json:"break_duration"`
	TotalHours    float64 `json:"total_hours"`
	OvertimeHours float64 `json:"overtime_hours"`

	Status                string `json:"status"`
	IsLate                bool   `json:"is_late"`
	LateMinutes           int    `json:"late_minutes"`
	EarlyDeparture        bool   `json:"early_departure"`
	EarlyDepartureMinutes int    `json:"early_departure_minutes"`

	ManualPunchIn    *string `json:"manual_punch_in,omitempty"`
	ManualPunchOut   *string `json:"manual_punch_out,omitempty"`
	AdjustedBy       *string `json:"adjusted_by,omitempty"`
	AdjustmentReason *string `json:"adjustment_reason,omitempty"`
	AdjustmentDate   *string `json:"adjustment_date,omitempty"`

	RequiresApproval bool    `json:"requires_approval"`
	ApprovedBy       *string `json:"approved_by,omitempty"`
	ApprovedAt       *string `json:"approved_at,omitempty"`
	ApprovalComments *string `json:"approval_comments,omitempty"`
}

type MyAttendanceRequest struct {
	EmployeeID string  `json:"-"`
	StartDate  *string `json:"-"` // YYYY-MM-DD
	EndDate    *string `json:"-"`
	Page       int     `json:"-"`
	Limit      int     `json:"-"`
}

func (r *MyAttendanceRequest) Validate() error {
	return validateDateRange(r.StartDate, r.EndDate)
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type TodayStatusResponse struct {
	Date         string  `json:"date"`
	IsPunchedIn  bool    `json:"is_punched_in"`
	PunchInTime  *string `json:"punch_in_time,omitempty"`
	PunchOutTime *string `json:"punch_out_time,omitempty"`
	TotalHours   float64 `json:"total_hours"`
	Status       string  `json:"status"`
}

// ========================================
// STATISTICS DTOs
// ========================================

type StatisticsRequest struct {
	EmployeeID string  `json:"-"`
	StartDate  *string `json:"-"` // YYYY-MM-DD, defaults to 30 days back
	EndDate    *string `json:"-"` // defaults to today
}

func (r *StatisticsRequest) Validate() error {
	return validateDateRange(r.StartDate, r.EndDate)
}

type Statistics struct {
	TotalDays             int     `json:"total_days"`
	PresentDays           int     `json:"present_days"`
	AbsentDays            int     `json:"absent_days"`
	LateDays              int     `json:"late_days"`
	HalfDays              int     `json:"half_days"`
	LeaveDays             int     `json:"leave_days"`
	TotalHours            float64 `json:"total_hours"`
	OvertimeHours         float64 `json:"overtime_hours"`
	AverageHoursPerDay    float64 `json:"average_hours_per_day"`
	PunctualityPercentage float64 `json:"punctuality_percentage"`
}

// ========================================
// TEAM ATTENDANCE DTOs
// ========================================

type TeamAttendanceRequest struct {
	CompanyID    string  `json:"-"`
	Date         *string `json:"-"` // YYYY-MM-DD, defaults to today
	DepartmentID *string `json:"-"`
	Page         int     `json:"-"`
	Limit        int     `json:"-"`
}

func (r *TeamAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil && *r.Date != "" {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// TeamAttendanceRow joins one employee's directory entry with their daily
// record for the requested date. Attendance fields are nil when the
// employee has no record that day.
type TeamAttendanceRow struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	EmployeeCode string  `json:"employee_code"`
	JobTitle     *string `json:"job_title,omitempty"`
	Date         string  `json:"date"`
	PunchInTime  *string `json:"punch_in_time,omitempty"`
	PunchOutTime *string `json:"punch_out_time,omitempty"`
	TotalHours   float64 `json:"total_hours"`
	Status       string  `json:"status"`
	IsLate       bool    `json:"is_late"`
	LateMinutes  int     `json:"late_minutes"`
}

type TeamAttendanceResponse struct {
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
	Rows       []TeamAttendanceRow `json:"rows"`
}

// ========================================
// AUDIT TRAIL DTOs
// ========================================

type PunchEventFilter struct {
	EmployeeID string  `json:"-"`
	StartDate  *string `json:"-"`
	EndDate    *string `json:"-"`
	Page       int     `json:"-"`
	Limit      int     `json:"-"`
}

func (r *PunchEventFilter) Validate() error {
	return validateDateRange(r.StartDate, r.EndDate)
}

type PunchEventResponse struct {
	ID                 string   `json:"id"`
	AttendanceID       string   `json:"attendance_id"`
	EmployeeID         string   `json:"employee_id"`
	PunchType          string   `json:"punch_type"`
	PunchTime          string   `json:"punch_time"`
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`
	DeviceInfo         *string  `json:"device_info,omitempty"`
	IPAddress          *string  `json:"ip_address,omitempty"`
	IsValidLocation    bool     `json:"is_valid_location"`
	DistanceFromOffice *float64 `json:"distance_from_office,omitempty"`
}

type ListPunchEventsResponse struct {
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
	Events     []PunchEventResponse `json:"events"`
}

func validateDateRange(startDate, endDate *string) error {
	var errs validator.ValidationErrors

	var start, end time.Time
	if startDate != nil && *startDate != "" {
		var ok bool
		if start, ok = validator.IsValidDate(*startDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if endDate != nil && *endDate != "" {
		var ok bool
		if end, ok = validator.IsValidDate(*endDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
