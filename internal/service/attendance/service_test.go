package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DurgarajC07/hrms-saas/internal/domain/attendance"
	"github.com/DurgarajC07/hrms-saas/internal/domain/company"
	"github.com/DurgarajC07/hrms-saas/internal/domain/employee"
	"github.com/DurgarajC07/hrms-saas/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----------------------------------------------------------------------
// In-memory fakes
// ----------------------------------------------------------------------

type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAttendanceRepo struct {
	records map[string]attendance.DailyAttendance // by id
	nextID  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.DailyAttendance)}
}

func (f *fakeAttendanceRepo) findByKey(employeeID string, date time.Time) *attendance.DailyAttendance {
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.Date.Equal(date) {
			copied := rec
			return &copied
		}
	}
	return nil
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, record attendance.DailyAttendance) (attendance.DailyAttendance, error) {
	if f.findByKey(record.EmployeeID, record.Date) != nil {
		return attendance.DailyAttendance{}, attendance.ErrDayAlreadyExists
	}
	f.nextID++
	record.ID = fmt.Sprintf("att-%d", f.nextID)
	f.records[record.ID] = record
	return record, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id, companyID string) (attendance.DailyAttendance, error) {
	rec, ok := f.records[id]
	if !ok || rec.CompanyID != companyID {
		return attendance.DailyAttendance{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

func (f *fakeAttendanceRepo) GetByIDForUpdate(ctx context.Context, id, companyID string) (attendance.DailyAttendance, error) {
	return f.GetByID(ctx, id, companyID)
}

func (f *fakeAttendanceRepo) GetForUpdate(ctx context.Context, employeeID string, date time.Time) (*attendance.DailyAttendance, error) {
	return f.findByKey(employeeID, date), nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.DailyAttendance, error) {
	return f.findByKey(employeeID, date), nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, record attendance.DailyAttendance) error {
	if _, ok := f.records[record.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	f.records[record.ID] = record
	return nil
}

func (f *fakeAttendanceRepo) ListByEmployee(ctx context.Context, employeeID string, startDate, endDate *time.Time, page, limit int) ([]attendance.DailyAttendance, int64, error) {
	var out []attendance.DailyAttendance
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID {
			out = append(out, rec)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) ListRange(ctx context.Context, employeeID string, startDate, endDate time.Time) ([]attendance.DailyAttendance, error) {
	var out []attendance.DailyAttendance
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && !rec.Date.Before(startDate) && !rec.Date.After(endDate) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) GetTeamAttendance(ctx context.Context, companyID string, date time.Time, departmentID *string, page, limit int) ([]attendance.TeamAttendanceRow, int64, error) {
	return nil, 0, nil
}

type fakePunchEventRepo struct {
	events []attendance.PunchEvent
}

func (f *fakePunchEventRepo) Create(ctx context.Context, event attendance.PunchEvent) (attendance.PunchEvent, error) {
	event.ID = fmt.Sprintf("ev-%d", len(f.events)+1)
	event.CreatedAt = event.PunchTime
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakePunchEventRepo) GetLastOfType(ctx context.Context, attendanceID string, punchType attendance.PunchType) (*attendance.PunchEvent, error) {
	var last *attendance.PunchEvent
	for i := range f.events {
		ev := f.events[i]
		if ev.AttendanceID != attendanceID || ev.PunchType != punchType {
			continue
		}
		if last == nil || ev.PunchTime.After(last.PunchTime) {
			copied := ev
			last = &copied
		}
	}
	return last, nil
}

func (f *fakePunchEventRepo) ListByEmployee(ctx context.Context, employeeID string, startTime, endTime *time.Time, page, limit int) ([]attendance.PunchEvent, int64, error) {
	var out []attendance.PunchEvent
	for _, ev := range f.events {
		if ev.EmployeeID == employeeID {
			out = append(out, ev)
		}
	}
	return out, int64(len(out)), nil
}

type fakeDirectory struct {
	employees map[string]employee.Employee
}

func (f *fakeDirectory) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

type fakeShiftRepo struct {
	shifts map[string]shift.Shift
}

func (f *fakeShiftRepo) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	sh, ok := f.shifts[id]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return sh, nil
}

type fakeGeofenceProvider struct {
	geofence *company.Geofence
}

func (f *fakeGeofenceProvider) GetGeofence(ctx context.Context, companyID string) (*company.Geofence, error) {
	return f.geofence, nil
}

// ----------------------------------------------------------------------
// Fixture
// ----------------------------------------------------------------------

type fixture struct {
	svc        *AttendanceServiceImpl
	attendance *fakeAttendanceRepo
	punches    *fakePunchEventRepo
	directory  *fakeDirectory
	shifts     *fakeShiftRepo
	geofences  *fakeGeofenceProvider
}

const (
	testCompanyID  = "11111111-1111-1111-1111-111111111111"
	testEmployeeID = "22222222-2222-2222-2222-222222222222"
	testShiftID    = "33333333-3333-3333-3333-333333333333"
	testAdjusterID = "44444444-4444-4444-4444-444444444444"

	officeLat = 0.0
	officeLng = 0.0
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	shiftID := testShiftID
	f := &fixture{
		attendance: newFakeAttendanceRepo(),
		punches:    &fakePunchEventRepo{},
		directory: &fakeDirectory{employees: map[string]employee.Employee{
			testEmployeeID: {
				ID:        testEmployeeID,
				CompanyID: testCompanyID,
				FullName:  "Dewi Lestari",
				ShiftID:   &shiftID,
				Timezone:  "UTC",
			},
		}},
		shifts: &fakeShiftRepo{shifts: map[string]shift.Shift{
			testShiftID: {
				ID:                  testShiftID,
				CompanyID:           testCompanyID,
				Name:                "Regular",
				StartTime:           "09:00",
				EndTime:             "17:00",
				LateGracePeriod:     15,
				EarlyDepartureGrace: 15,
				OvertimeThreshold:   480,
				IsActive:            true,
			},
		}},
		geofences: &fakeGeofenceProvider{geofence: &company.Geofence{
			Latitude:     officeLat,
			Longitude:    officeLng,
			RadiusMeters: 100,
		}},
	}

	svc := NewAttendanceService(fakeTxManager{}, f.attendance, f.punches, f.directory, f.shifts, f.geofences)
	f.svc = svc.(*AttendanceServiceImpl)
	return f
}

func (f *fixture) clockAt(t time.Time) {
	f.svc.now = func() time.Time { return t }
}

func ptr[T any](v T) *T { return &v }

func punchAt(f *fixture, t *testing.T, at time.Time, punchType attendance.PunchType, lat, lng *float64) attendance.PunchResponse {
	t.Helper()
	f.clockAt(at)
	resp, err := f.svc.RecordPunch(context.Background(), attendance.PunchRequest{
		EmployeeID: testEmployeeID,
		PunchType:  punchType,
		Latitude:   lat,
		Longitude:  lng,
	})
	require.NoError(t, err)
	return resp
}

// ----------------------------------------------------------------------
// RecordPunch
// ----------------------------------------------------------------------

func TestRecordPunch_FirstPunchInWins(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	first := day.Add(9 * time.Hour)
	punchAt(f, t, first, attendance.PunchIn, ptr(officeLat), ptr(officeLng))
	punchAt(f, t, day.Add(10*time.Hour), attendance.PunchIn, ptr(officeLat), ptr(officeLng))

	rec := f.attendance.findByKey(testEmployeeID, day)
	require.NotNil(t, rec)
	require.NotNil(t, rec.PunchInTime)
	assert.True(t, rec.PunchInTime.Equal(first), "duplicate punch-in must not move the recorded time")

	// Both punches still land in the audit trail.
	assert.Len(t, f.punches.events, 2)
}

func TestRecordPunch_LastPunchOutWinsAndRecomputesHours(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	punchAt(f, t, day.Add(9*time.Hour), attendance.PunchIn, ptr(officeLat), ptr(officeLng))
	punchAt(f, t, day.Add(17*time.Hour), attendance.PunchOut, ptr(officeLat), ptr(officeLng))

	rec := f.attendance.findByKey(testEmployeeID, day)
	require.NotNil(t, rec)
	assert.Equal(t, 8.0, rec.TotalHours)

	// A later punch-out overwrites and the total follows.
	later := day.Add(17*time.Hour + 30*time.Minute)
	punchAt(f, t, later, attendance.PunchOut, ptr(officeLat), ptr(officeLng))

	rec = f.attendance.findByKey(testEmployeeID, day)
	require.NotNil(t, rec.PunchOutTime)
	assert.True(t, rec.PunchOutTime.Equal(later))
	assert.Equal(t, 8.5, rec.TotalHours)
}

func TestRecordPunch_EndToEndDay(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	punchAt(f, t, day.Add(9*time.Hour+5*time.Minute), attendance.PunchIn, ptr(officeLat), ptr(officeLng))
	punchAt(f, t, day.Add(17*time.Hour+35*time.Minute), attendance.PunchOut, ptr(officeLat), ptr(officeLng))

	rec := f.attendance.findByKey(testEmployeeID, day)
	require.NotNil(t, rec)
	assert.Equal(t, 8.5, rec.TotalHours)
	assert.Equal(t, attendance.StatusPresent, rec.Status) // within the 15 min grace
	assert.False(t, rec.IsLate)
	assert.Equal(t, 0.5, rec.OvertimeHours)
}

func TestRecordPunch_LateBeyondGrace(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	punchAt(f, t, day.Add(9*time.Hour+40*time.Minute), attendance.PunchIn, ptr(officeLat), ptr(officeLng))

	rec := f.attendance.findByKey(testEmployeeID, day)
	require.NotNil(t, rec)
	assert.True(t, rec.IsLate)
	assert.Equal(t, 40, rec.LateMinutes)
	assert.Equal(t, attendance.StatusLate, rec.Status)
}

func TestRecordPunch_EarlyDeparture(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	punchAt(f, t, day.Add(9*time.Hour), attendance.PunchIn, ptr(officeLat), ptr(officeLng))
	punchAt(f, t, day.Add(16*time.Hour), attendance.PunchOut, ptr(officeLat), ptr(officeLng))

	rec := f.attendance.findByKey(testEmployeeID, day)
	require.NotNil(t, rec)
	assert.True(t, rec.EarlyDeparture)
	assert.Equal(t, 60, rec.EarlyDepartureMinutes)
}

func TestRecordPunch_OutsideGeofence(t *testing.T) {
	f := newFixture(t)
	f.clockAt(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	// Roughly 150m north of the office; radius is 100m.
	_, err := f.svc.RecordPunch(context.Background(), attendance.PunchRequest{
		EmployeeID: testEmployeeID,
		PunchType:  attendance.PunchIn,
		Latitude:   ptr(0.00135),
		Longitude:  ptr(0.0),
	})

	var oor *attendance.OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.InDelta(t, 150, oor.DistanceMeters, 5)
	assert.Equal(t, float64(100), oor.RadiusMeters)

	// Nothing persisted: no aggregate, no audit row.
	assert.Empty(t, f.attendance.records)
	assert.Empty(t, f.punches.events)
}

func TestRecordPunch_NoCoordinatesIsAcceptedUnvalidated(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	resp := punchAt(f, t, day.Add(9*time.Hour), attendance.PunchIn, nil, nil)
	assert.True(t, resp.Success)
	assert.False(t, resp.LocationValid)

	require.Len(t, f.punches.events, 1)
	assert.False(t, f.punches.events[0].IsValidLocation)
	assert.Nil(t, f.punches.events[0].DistanceFromOffice)
}

func TestRecordPunch_NoGeofenceConfiguredSkipsValidation(t *testing.T) {
	f := newFixture(t)
	f.geofences.geofence = nil
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	// Far from anywhere; accepted because no geofence exists.
	resp := punchAt(f, t, day.Add(9*time.Hour), attendance.PunchIn, ptr(40.0), ptr(120.0))
	assert.True(t, resp.Success)
	assert.True(t, resp.LocationValid)
}

func TestRecordPunch_BreakAccumulation(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	punchAt(f, t, day.Add(9*time.Hour), attendance.PunchIn, ptr(officeLat), ptr(officeLng))
	punchAt(f, t, day.Add(12*time.Hour), attendance.BreakStart, ptr(officeLat), ptr(officeLng))
	punchAt(f, t, day.Add(12*time.Hour+45*time.Minute), attendance.BreakEnd, ptr(officeLat), ptr(officeLng))

	rec := f.attendance.findByKey(testEmployeeID, day)
	require.NotNil(t, rec)
	assert.Equal(t, 45, rec.BreakDuration)

	// A second break_end without a fresh break_start changes nothing.
	punchAt(f, t, day.Add(13*time.Hour), attendance.BreakEnd, ptr(officeLat), ptr(officeLng))
	rec = f.attendance.findByKey(testEmployeeID, day)
	assert.Equal(t, 45, rec.BreakDuration)

	// A second full pair accumulates.
	punchAt(f, t, day.Add(15*time.Hour), attendance.BreakStart, ptr(officeLat), ptr(officeLng))
	punchAt(f, t, day.Add(15*time.Hour+15*time.Minute), attendance.BreakEnd, ptr(officeLat), ptr(officeLng))
	rec = f.attendance.findByKey(testEmployeeID, day)
	assert.Equal(t, 60, rec.BreakDuration)
}

func TestRecordPunch_InvalidType(t *testing.T) {
	f := newFixture(t)
	f.clockAt(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	_, err := f.svc.RecordPunch(context.Background(), attendance.PunchRequest{
		EmployeeID: testEmployeeID,
		PunchType:  attendance.PunchType("coffee"),
	})
	require.Error(t, err)
	assert.Empty(t, f.attendance.records)
}

func TestRecordPunch_UnknownEmployee(t *testing.T) {
	f := newFixture(t)
	f.clockAt(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	_, err := f.svc.RecordPunch(context.Background(), attendance.PunchRequest{
		EmployeeID: "99999999-9999-9999-9999-999999999999",
		PunchType:  attendance.PunchIn,
	})
	require.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

// ----------------------------------------------------------------------
// Adjustment workflow
// ----------------------------------------------------------------------

func seedAttendedDay(f *fixture, t *testing.T, day time.Time) attendance.DailyAttendance {
	t.Helper()
	punchAt(f, t, day.Add(9*time.Hour), attendance.PunchIn, ptr(officeLat), ptr(officeLng))
	punchAt(f, t, day.Add(17*time.Hour), attendance.PunchOut, ptr(officeLat), ptr(officeLng))
	rec := f.attendance.findByKey(testEmployeeID, day)
	require.NotNil(t, rec)
	return *rec
}

func TestAdjustAttendance_OverridesHoursAndRequiresApproval(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	seeded := seedAttendedDay(f, t, day)

	f.clockAt(day.Add(20 * time.Hour))
	resp, err := f.svc.AdjustAttendance(context.Background(), attendance.AdjustRequest{
		AttendanceID:   seeded.ID,
		CompanyID:      testCompanyID,
		AdjusterID:     testAdjusterID,
		ManualPunchIn:  ptr("2025-03-10T09:00:00Z"),
		ManualPunchOut: ptr("2025-03-10T17:30:00Z"),
		Reason:         "forgot badge, confirmed with supervisor",
	})
	require.NoError(t, err)

	assert.Equal(t, 8.5, resp.TotalHours)
	assert.True(t, resp.RequiresApproval)
	assert.Equal(t, testAdjusterID, *resp.AdjustedBy)

	rec := f.attendance.records[seeded.ID]
	assert.Equal(t, 8.5, rec.TotalHours)
	assert.True(t, rec.RequiresApproval)
	require.NotNil(t, rec.AdjustmentReason)
	assert.Equal(t, "forgot badge, confirmed with supervisor", *rec.AdjustmentReason)
}

func TestAdjustAttendance_NegativeSpanClampsToZero(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	seeded := seedAttendedDay(f, t, day)

	_, err := f.svc.AdjustAttendance(context.Background(), attendance.AdjustRequest{
		AttendanceID:   seeded.ID,
		CompanyID:      testCompanyID,
		AdjusterID:     testAdjusterID,
		ManualPunchIn:  ptr("2025-03-10T17:00:00Z"),
		ManualPunchOut: ptr("2025-03-10T09:00:00Z"),
		Reason:         "typo check",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, f.attendance.records[seeded.ID].TotalHours)
}

func TestAdjustAttendance_MissingReason(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	seeded := seedAttendedDay(f, t, day)

	_, err := f.svc.AdjustAttendance(context.Background(), attendance.AdjustRequest{
		AttendanceID: seeded.ID,
		CompanyID:    testCompanyID,
		AdjusterID:   testAdjusterID,
	})
	require.Error(t, err)
}

func TestAdjustAttendance_WrongCompany(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	seeded := seedAttendedDay(f, t, day)

	_, err := f.svc.AdjustAttendance(context.Background(), attendance.AdjustRequest{
		AttendanceID: seeded.ID,
		CompanyID:    "55555555-5555-5555-5555-555555555555",
		AdjusterID:   testAdjusterID,
		Reason:       "cross-tenant probe",
	})
	require.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestApproveAdjustment_ClearsPendingWithoutTouchingHours(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	seeded := seedAttendedDay(f, t, day)

	_, err := f.svc.AdjustAttendance(context.Background(), attendance.AdjustRequest{
		AttendanceID:   seeded.ID,
		CompanyID:      testCompanyID,
		AdjusterID:     testAdjusterID,
		ManualPunchIn:  ptr("2025-03-10T09:00:00Z"),
		ManualPunchOut: ptr("2025-03-10T17:30:00Z"),
		Reason:         "forgot badge",
	})
	require.NoError(t, err)

	resp, err := f.svc.ApproveAdjustment(context.Background(), attendance.ApproveRequest{
		AttendanceID: seeded.ID,
		CompanyID:    testCompanyID,
		ApproverID:   testAdjusterID,
		Comments:     ptr("verified with CCTV"),
	})
	require.NoError(t, err)

	assert.False(t, resp.RequiresApproval)
	assert.Equal(t, 8.5, resp.TotalHours)
	require.NotNil(t, resp.ApprovedBy)
	assert.Equal(t, testAdjusterID, *resp.ApprovedBy)
	assert.NotNil(t, resp.ApprovedAt)
}

func TestRejectAdjustment_StaysPendingAndKeepsManualFields(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	seeded := seedAttendedDay(f, t, day)

	_, err := f.svc.AdjustAttendance(context.Background(), attendance.AdjustRequest{
		AttendanceID:  seeded.ID,
		CompanyID:     testCompanyID,
		AdjusterID:    testAdjusterID,
		ManualPunchIn: ptr("2025-03-10T08:00:00Z"),
		Reason:        "claims earlier arrival",
	})
	require.NoError(t, err)

	resp, err := f.svc.RejectAdjustment(context.Background(), attendance.RejectRequest{
		AttendanceID: seeded.ID,
		CompanyID:    testCompanyID,
		ReviewerID:   testAdjusterID,
		Reason:       "no supporting evidence",
	})
	require.NoError(t, err)

	assert.True(t, resp.RequiresApproval)
	assert.NotNil(t, resp.ManualPunchIn)
	require.NotNil(t, resp.ApprovalComments)
	assert.Contains(t, *resp.ApprovalComments, "no supporting evidence")
}

// ----------------------------------------------------------------------
// Statistics
// ----------------------------------------------------------------------

func TestComputeStatistics_EmptyRange(t *testing.T) {
	stats := ComputeStatistics(nil)
	assert.Equal(t, attendance.Statistics{}, stats)
}

func TestComputeStatistics_MixedRange(t *testing.T) {
	records := []attendance.DailyAttendance{
		{Status: attendance.StatusPresent, TotalHours: 8, OvertimeHours: 0},
		{Status: attendance.StatusLate, TotalHours: 7.5, IsLate: true},
		{Status: attendance.StatusPresent, TotalHours: 9, OvertimeHours: 1},
		{Status: attendance.StatusAbsent},
		{Status: attendance.StatusHalfDay, TotalHours: 4},
		{Status: attendance.StatusOnLeave},
	}

	stats := ComputeStatistics(records)
	assert.Equal(t, 6, stats.TotalDays)
	assert.Equal(t, 3, stats.PresentDays)
	assert.Equal(t, 1, stats.AbsentDays)
	assert.Equal(t, 1, stats.LateDays)
	assert.Equal(t, 1, stats.HalfDays)
	assert.Equal(t, 1, stats.LeaveDays)
	assert.Equal(t, 28.5, stats.TotalHours)
	assert.Equal(t, 1.0, stats.OvertimeHours)
	assert.Equal(t, 4.75, stats.AverageHoursPerDay)
	assert.Equal(t, 83.33, stats.PunctualityPercentage)
}

func TestGetStatistics_DefaultsToTrailingThirtyDays(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	seedAttendedDay(f, t, day)

	// Seed a stale record well outside the default window.
	_, err := f.attendance.Create(context.Background(), attendance.DailyAttendance{
		CompanyID:  testCompanyID,
		EmployeeID: testEmployeeID,
		Date:       day.AddDate(0, -6, 0),
		Status:     attendance.StatusPresent,
		TotalHours: 8,
	})
	require.NoError(t, err)

	f.clockAt(day.Add(23 * time.Hour))
	stats, err := f.svc.GetStatistics(context.Background(), attendance.StatisticsRequest{
		EmployeeID: testEmployeeID,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalDays)
	assert.Equal(t, 8.0, stats.TotalHours)
	assert.Equal(t, 100.0, stats.PunctualityPercentage)
}

func TestGetStatistics_InvalidRange(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetStatistics(context.Background(), attendance.StatisticsRequest{
		EmployeeID: testEmployeeID,
		StartDate:  ptr("2025-03-10"),
		EndDate:    ptr("2025-03-01"),
	})
	require.Error(t, err)
}

// ----------------------------------------------------------------------
// Reads
// ----------------------------------------------------------------------

func TestGetTodayStatus(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	f.clockAt(day.Add(8 * time.Hour))
	status, err := f.svc.GetTodayStatus(context.Background(), testEmployeeID)
	require.NoError(t, err)
	assert.False(t, status.IsPunchedIn)
	assert.Equal(t, "absent", status.Status)

	punchAt(f, t, day.Add(9*time.Hour), attendance.PunchIn, ptr(officeLat), ptr(officeLng))

	f.clockAt(day.Add(10 * time.Hour))
	status, err = f.svc.GetTodayStatus(context.Background(), testEmployeeID)
	require.NoError(t, err)
	assert.True(t, status.IsPunchedIn)
	assert.Equal(t, "present", status.Status)
	require.NotNil(t, status.PunchInTime)

	punchAt(f, t, day.Add(17*time.Hour), attendance.PunchOut, ptr(officeLat), ptr(officeLng))

	f.clockAt(day.Add(18 * time.Hour))
	status, err = f.svc.GetTodayStatus(context.Background(), testEmployeeID)
	require.NoError(t, err)
	assert.False(t, status.IsPunchedIn)
	assert.Equal(t, 8.0, status.TotalHours)
}

func TestListPunchEvents(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	seedAttendedDay(f, t, day)

	resp, err := f.svc.ListPunchEvents(context.Background(), attendance.PunchEventFilter{
		EmployeeID: testEmployeeID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Len(t, resp.Events, 2)
}

// ----------------------------------------------------------------------
// Create race
// ----------------------------------------------------------------------

// racingAttendanceRepo simulates losing the day-row insert race once.
type racingAttendanceRepo struct {
	*fakeAttendanceRepo
	raced bool
}

func (r *racingAttendanceRepo) Create(ctx context.Context, record attendance.DailyAttendance) (attendance.DailyAttendance, error) {
	if !r.raced {
		r.raced = true
		// A concurrent punch inserted the row between our lock attempt and
		// our insert.
		_, err := r.fakeAttendanceRepo.Create(ctx, record)
		if err != nil {
			return attendance.DailyAttendance{}, err
		}
		return attendance.DailyAttendance{}, attendance.ErrDayAlreadyExists
	}
	return r.fakeAttendanceRepo.Create(ctx, record)
}

func TestRecordPunch_CreateRaceRetriesAsUpdate(t *testing.T) {
	f := newFixture(t)
	racing := &racingAttendanceRepo{fakeAttendanceRepo: f.attendance}
	f.svc.attendanceRepo = racing

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	resp := punchAt(f, t, day.Add(9*time.Hour), attendance.PunchIn, ptr(officeLat), ptr(officeLng))
	assert.True(t, resp.Success)

	rec := f.attendance.findByKey(testEmployeeID, day)
	require.NotNil(t, rec)
	assert.NotNil(t, rec.PunchInTime)
	assert.True(t, racing.raced)
}
