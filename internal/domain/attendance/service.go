package attendance

import (
	"context"
)

// AttendanceService defines the business operations of the time and
// attendance core.
type AttendanceService interface {
	// RecordPunch validates a geolocated punch, merges it into the day's
	// aggregate and appends an audit event, atomically.
	RecordPunch(ctx context.Context, req PunchRequest) (PunchResponse, error)

	// AdjustAttendance applies an HR correction; always leaves the record
	// pending approval.
	AdjustAttendance(ctx context.Context, req AdjustRequest) (AttendanceResponse, error)

	// ApproveAdjustment clears the pending flag and stamps the approver.
	ApproveAdjustment(ctx context.Context, req ApproveRequest) (AttendanceResponse, error)

	// RejectAdjustment records the rejection; the record stays pending and
	// the manual fields stay in place.
	RejectAdjustment(ctx context.Context, req RejectRequest) (AttendanceResponse, error)

	// GetStatistics aggregates a date range, defaulting to the trailing 30
	// days. Read-only.
	GetStatistics(ctx context.Context, req StatisticsRequest) (Statistics, error)

	// GetTeamAttendance lists a company's attendance for one date.
	GetTeamAttendance(ctx context.Context, req TeamAttendanceRequest) (TeamAttendanceResponse, error)

	// GetMyAttendance pages the calling employee's own records.
	GetMyAttendance(ctx context.Context, req MyAttendanceRequest) (ListAttendanceResponse, error)

	// GetTodayStatus summarizes today's record for the calling employee.
	GetTodayStatus(ctx context.Context, employeeID string) (TodayStatusResponse, error)

	// ListPunchEvents pages the raw audit trail.
	ListPunchEvents(ctx context.Context, req PunchEventFilter) (ListPunchEventsResponse, error)
}
