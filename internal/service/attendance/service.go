package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/DurgarajC07/hrms-saas/internal/domain/attendance"
	"github.com/DurgarajC07/hrms-saas/internal/domain/company"
	"github.com/DurgarajC07/hrms-saas/internal/domain/employee"
	"github.com/DurgarajC07/hrms-saas/internal/domain/shift"
	"github.com/DurgarajC07/hrms-saas/internal/pkg/database"
	"github.com/DurgarajC07/hrms-saas/internal/pkg/utils"
	"github.com/DurgarajC07/hrms-saas/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	txm            database.TxManager
	attendanceRepo attendance.AttendanceRepository
	punchRepo      attendance.PunchEventRepository
	directory      employee.Directory
	shifts         shift.Repository
	geofences      company.GeofenceProvider

	// injectable clock for deterministic tests
	now func() time.Time
}

func NewAttendanceService(
	txm database.TxManager,
	attendanceRepo attendance.AttendanceRepository,
	punchRepo attendance.PunchEventRepository,
	directory employee.Directory,
	shifts shift.Repository,
	geofences company.GeofenceProvider,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		txm:            txm,
		attendanceRepo: attendanceRepo,
		punchRepo:      punchRepo,
		directory:      directory,
		shifts:         shifts,
		geofences:      geofences,
		now:            time.Now,
	}
}

// RecordPunch implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecordPunch(ctx context.Context, req attendance.PunchRequest) (attendance.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchResponse{}, err
	}

	emp, err := a.directory.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.PunchResponse{}, employee.ErrEmployeeNotFound
		}
		return attendance.PunchResponse{}, fmt.Errorf("failed to resolve employee: %w", err)
	}

	// Geofence check happens before the transaction opens: pure CPU work,
	// and a rejected punch must leave nothing behind.
	locationValid := false
	var distance *float64
	if req.Latitude != nil && req.Longitude != nil {
		gf, err := a.geofences.GetGeofence(ctx, emp.CompanyID)
		if err != nil {
			return attendance.PunchResponse{}, fmt.Errorf("failed to resolve geofence: %w", err)
		}
		locationValid = true
		if gf != nil {
			d := utils.CalculateHaversineDistance(*req.Latitude, *req.Longitude, gf.Latitude, gf.Longitude)
			distance = &d
			if d > gf.RadiusMeters {
				return attendance.PunchResponse{}, &attendance.OutOfRangeError{
					DistanceMeters: d,
					RadiusMeters:   gf.RadiusMeters,
				}
			}
		}
	}

	punchTime := a.now().UTC()

	loc, err := time.LoadLocation(emp.Timezone)
	if err != nil {
		loc = time.UTC
	}
	day := calendarDay(punchTime, loc)

	var sh *shift.Shift
	if emp.ShiftID != nil {
		s, err := a.shifts.GetByID(ctx, *emp.ShiftID)
		if err != nil && !errors.Is(err, shift.ErrShiftNotFound) {
			return attendance.PunchResponse{}, fmt.Errorf("failed to resolve shift: %w", err)
		}
		if err == nil && s.IsActive {
			sh = &s
		}
	}

	err = a.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		rec, err := a.lockOrCreateDay(ctx, emp, day)
		if err != nil {
			return err
		}

		if err := a.applyPunch(ctx, rec, req, punchTime, sh, loc); err != nil {
			return err
		}

		if err := a.attendanceRepo.Update(ctx, *rec); err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}

		// Append-only audit row, committed atomically with the aggregate.
		_, err = a.punchRepo.Create(ctx, attendance.PunchEvent{
			AttendanceID:       rec.ID,
			EmployeeID:         emp.ID,
			PunchType:          req.PunchType,
			PunchTime:          punchTime,
			Latitude:           req.Latitude,
			Longitude:          req.Longitude,
			DeviceInfo:         req.DeviceInfo,
			IPAddress:          req.IPAddress,
			IsValidLocation:    locationValid,
			DistanceFromOffice: distance,
		})
		return err
	})
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	return attendance.PunchResponse{
		Success:       true,
		Message:       fmt.Sprintf("Punch %s recorded successfully", strings.ReplaceAll(string(req.PunchType), "_", " ")),
		PunchTime:     punchTime,
		LocationValid: locationValid,
	}, nil
}

// lockOrCreateDay returns the day's aggregate under a row lock, creating it
// on the first punch of the day. When two punches race to create the same
// day, the loser retries once as an update against the winning row.
func (a *AttendanceServiceImpl) lockOrCreateDay(ctx context.Context, emp employee.Employee, day time.Time) (*attendance.DailyAttendance, error) {
	rec, err := a.attendanceRepo.GetForUpdate(ctx, emp.ID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to lock attendance record: %w", err)
	}
	if rec != nil {
		return rec, nil
	}

	created, err := a.attendanceRepo.Create(ctx, attendance.DailyAttendance{
		CompanyID:  emp.CompanyID,
		EmployeeID: emp.ID,
		Date:       day,
		Status:     attendance.StatusPresent,
	})
	if err == nil {
		return &created, nil
	}
	if !errors.Is(err, attendance.ErrDayAlreadyExists) {
		return nil, fmt.Errorf("failed to create attendance record: %w", err)
	}

	rec, err = a.attendanceRepo.GetForUpdate(ctx, emp.ID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to lock attendance record after create race: %w", err)
	}
	if rec == nil {
		return nil, attendance.ErrPersistenceConflict
	}
	return rec, nil
}

// applyPunch merges one punch into the aggregate and recomputes the derived
// metrics.
func (a *AttendanceServiceImpl) applyPunch(ctx context.Context, rec *attendance.DailyAttendance, req attendance.PunchRequest, punchTime time.Time, sh *shift.Shift, loc *time.Location) error {
	switch req.PunchType {
	case attendance.PunchIn:
		// First punch-in of the day wins.
		if rec.PunchInTime == nil {
			t := punchTime
			rec.PunchInTime = &t
			rec.PunchInLatitude = req.Latitude
			rec.PunchInLongitude = req.Longitude
		}

	case attendance.PunchOut:
		// Last punch-out of the day wins.
		t := punchTime
		rec.PunchOutTime = &t
		rec.PunchOutLatitude = req.Latitude
		rec.PunchOutLongitude = req.Longitude

	case attendance.BreakStart:
		// Audit row only; the aggregate changes when the break ends.

	case attendance.BreakEnd:
		lastStart, err := a.punchRepo.GetLastOfType(ctx, rec.ID, attendance.BreakStart)
		if err != nil {
			return fmt.Errorf("failed to look up break start: %w", err)
		}
		lastEnd, err := a.punchRepo.GetLastOfType(ctx, rec.ID, attendance.BreakEnd)
		if err != nil {
			return fmt.Errorf("failed to look up break end: %w", err)
		}
		// Only an unconsumed break_start opens a break.
		if lastStart != nil && (lastEnd == nil || lastStart.PunchTime.After(lastEnd.PunchTime)) {
			if elapsed := punchTime.Sub(lastStart.PunchTime); elapsed > 0 {
				rec.BreakDuration += int(elapsed.Minutes())
			}
		}
	}

	recalcDerived(rec, sh, loc)
	return nil
}

// AdjustAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) AdjustAttendance(ctx context.Context, req attendance.AdjustRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var rec attendance.DailyAttendance
	err := a.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		rec, err = a.attendanceRepo.GetByIDForUpdate(ctx, req.AttendanceID, req.CompanyID)
		if err != nil {
			return err
		}

		if req.ManualPunchIn != nil {
			t, _ := validator.IsValidDateTime(*req.ManualPunchIn)
			t = t.UTC()
			rec.ManualPunchIn = &t
		}
		if req.ManualPunchOut != nil {
			t, _ := validator.IsValidDateTime(*req.ManualPunchOut)
			t = t.UTC()
			rec.ManualPunchOut = &t
		}

		now := a.now().UTC()
		rec.AdjustedBy = &req.AdjusterID
		rec.AdjustmentReason = &req.Reason
		rec.AdjustmentDate = &now
		// An adjustment is always pending until explicitly approved, even
		// when made by a privileged actor.
		rec.RequiresApproval = true

		if req.Status != nil {
			rec.Status = attendance.Status(*req.Status)
		}

		// Manual times override the punch-derived total.
		if rec.ManualPunchIn != nil && rec.ManualPunchOut != nil {
			rec.TotalHours = utils.RoundHours(math.Max(0, rec.ManualPunchOut.Sub(*rec.ManualPunchIn).Hours()))
		}

		return a.attendanceRepo.Update(ctx, rec)
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(rec), nil
}

// ApproveAdjustment implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ApproveAdjustment(ctx context.Context, req attendance.ApproveRequest) (attendance.AttendanceResponse, error) {
	var rec attendance.DailyAttendance
	err := a.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		rec, err = a.attendanceRepo.GetByIDForUpdate(ctx, req.AttendanceID, req.CompanyID)
		if err != nil {
			return err
		}

		now := a.now().UTC()
		rec.ApprovedBy = &req.ApproverID
		rec.ApprovedAt = &now
		rec.ApprovalComments = req.Comments
		rec.RequiresApproval = false

		return a.attendanceRepo.Update(ctx, rec)
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(rec), nil
}

// RejectAdjustment implements attendance.AttendanceService. The record stays
// pending and the manual fields stay in place; reverting to punch-derived
// values is a separate, explicit adjustment.
func (a *AttendanceServiceImpl) RejectAdjustment(ctx context.Context, req attendance.RejectRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var rec attendance.DailyAttendance
	err := a.txm.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		rec, err = a.attendanceRepo.GetByIDForUpdate(ctx, req.AttendanceID, req.CompanyID)
		if err != nil {
			return err
		}

		now := a.now().UTC()
		comments := "rejected: " + req.Reason
		rec.ApprovedBy = &req.ReviewerID
		rec.ApprovedAt = &now
		rec.ApprovalComments = &comments

		return a.attendanceRepo.Update(ctx, rec)
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(rec), nil
}

// GetStatistics implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetStatistics(ctx context.Context, req attendance.StatisticsRequest) (attendance.Statistics, error) {
	if err := req.Validate(); err != nil {
		return attendance.Statistics{}, err
	}

	end := calendarDay(a.now().UTC(), time.UTC)
	start := end.AddDate(0, 0, -30)
	if req.StartDate != nil && *req.StartDate != "" {
		start, _ = validator.IsValidDate(*req.StartDate)
	}
	if req.EndDate != nil && *req.EndDate != "" {
		end, _ = validator.IsValidDate(*req.EndDate)
	}

	records, err := a.attendanceRepo.ListRange(ctx, req.EmployeeID, start, end)
	if err != nil {
		return attendance.Statistics{}, fmt.Errorf("failed to scan attendance range: %w", err)
	}

	return ComputeStatistics(records), nil
}

// GetTeamAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTeamAttendance(ctx context.Context, req attendance.TeamAttendanceRequest) (attendance.TeamAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.TeamAttendanceResponse{}, err
	}

	date := calendarDay(a.now().UTC(), time.UTC)
	if req.Date != nil && *req.Date != "" {
		date, _ = validator.IsValidDate(*req.Date)
	}

	page, limit := normalizePage(req.Page, req.Limit, 50)
	rows, total, err := a.attendanceRepo.GetTeamAttendance(ctx, req.CompanyID, date, req.DepartmentID, page, limit)
	if err != nil {
		return attendance.TeamAttendanceResponse{}, fmt.Errorf("failed to get team attendance: %w", err)
	}

	return attendance.TeamAttendanceResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
		Rows:       rows,
	}, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, req attendance.MyAttendanceRequest) (attendance.ListAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	var start, end *time.Time
	if req.StartDate != nil && *req.StartDate != "" {
		t, _ := validator.IsValidDate(*req.StartDate)
		start = &t
	}
	if req.EndDate != nil && *req.EndDate != "" {
		t, _ := validator.IsValidDate(*req.EndDate)
		end = &t
	}

	page, limit := normalizePage(req.Page, req.Limit, 20)
	records, total, err := a.attendanceRepo.ListByEmployee(ctx, req.EmployeeID, start, end, page, limit)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get my attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapAttendanceToResponse(rec))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages(total, limit),
		Attendances: responses,
	}, nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, employeeID string) (attendance.TodayStatusResponse, error) {
	emp, err := a.directory.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	loc, err := time.LoadLocation(emp.Timezone)
	if err != nil {
		loc = time.UTC
	}
	today := calendarDay(a.now().UTC(), loc)

	status := attendance.TodayStatusResponse{
		Date:   today.Format("2006-01-02"),
		Status: string(attendance.StatusAbsent),
	}

	rec, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if rec != nil {
		status.IsPunchedIn = rec.PunchInTime != nil && rec.PunchOutTime == nil
		status.PunchInTime = timePtrToString(rec.PunchInTime)
		status.PunchOutTime = timePtrToString(rec.PunchOutTime)
		status.TotalHours = rec.TotalHours
		status.Status = string(rec.Status)
	}

	return status, nil
}

// ListPunchEvents implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListPunchEvents(ctx context.Context, req attendance.PunchEventFilter) (attendance.ListPunchEventsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ListPunchEventsResponse{}, err
	}

	var start, end *time.Time
	if req.StartDate != nil && *req.StartDate != "" {
		t, _ := validator.IsValidDate(*req.StartDate)
		start = &t
	}
	if req.EndDate != nil && *req.EndDate != "" {
		t, _ := validator.IsValidDate(*req.EndDate)
		t = t.Add(24*time.Hour - time.Nanosecond) // inclusive end date
		end = &t
	}

	page, limit := normalizePage(req.Page, req.Limit, 50)
	events, total, err := a.punchRepo.ListByEmployee(ctx, req.EmployeeID, start, end, page, limit)
	if err != nil {
		return attendance.ListPunchEventsResponse{}, fmt.Errorf("failed to list punch events: %w", err)
	}

	responses := make([]attendance.PunchEventResponse, 0, len(events))
	for _, ev := range events {
		responses = append(responses, attendance.PunchEventResponse{
			ID:                 ev.ID,
			AttendanceID:       ev.AttendanceID,
			EmployeeID:         ev.EmployeeID,
			PunchType:          string(ev.PunchType),
			PunchTime:          ev.PunchTime.UTC().Format(time.RFC3339),
			Latitude:           ev.Latitude,
			Longitude:          ev.Longitude,
			DeviceInfo:         ev.DeviceInfo,
			IPAddress:          ev.IPAddress,
			IsValidLocation:    ev.IsValidLocation,
			DistanceFromOffice: ev.DistanceFromOffice,
		})
	}

	return attendance.ListPunchEventsResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
		Events:     responses,
	}, nil
}

// calendarDay resolves t's calendar date in loc, normalized to UTC midnight
// for storage in a DATE column.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	return int(math.Ceil(float64(total) / float64(limit)))
}

// timePtrToString safely converts a *time.Time to an RFC3339 string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func mapAttendanceToResponse(rec attendance.DailyAttendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:                    rec.ID,
		EmployeeID:            rec.EmployeeID,
		Date:                  rec.Date.Format("2006-01-02"),
		PunchInTime:           timePtrToString(rec.PunchInTime),
		PunchOutTime:          timePtrToString(rec.PunchOutTime),
		BreakDuration:         rec.BreakDuration,
		TotalHours:            rec.TotalHours,
		OvertimeHours:         rec.OvertimeHours,
		Status:                string(rec.Status),
		IsLate:                rec.IsLate,
		LateMinutes:           rec.LateMinutes,
		EarlyDeparture:        rec.EarlyDeparture,
		EarlyDepartureMinutes: rec.EarlyDepartureMinutes,
		ManualPunchIn:         timePtrToString(rec.ManualPunchIn),
		ManualPunchOut:        timePtrToString(rec.ManualPunchOut),
		AdjustedBy:            rec.AdjustedBy,
		AdjustmentReason:      rec.AdjustmentReason,
		AdjustmentDate:        timePtrToString(rec.AdjustmentDate),
		RequiresApproval:      rec.RequiresApproval,
		ApprovedBy:            rec.ApprovedBy,
		ApprovedAt:            timePtrToString(rec.ApprovedAt),
		ApprovalComments:      rec.ApprovalComments,
	}
}
