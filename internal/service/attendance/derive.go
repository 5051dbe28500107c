package attendance

import (
	"math"
	"time"

	"github.com/DurgarajC07/hrms-saas/internal/domain/attendance"
	"github.com/DurgarajC07/hrms-saas/internal/domain/shift"
	"github.com/DurgarajC07/hrms-saas/internal/pkg/utils"
)

// effectiveTimes returns the working-time bounds of the day. Manual
// adjustments override the recorded punches.
func effectiveTimes(rec *attendance.DailyAttendance) (in, out *time.Time) {
	in = rec.PunchInTime
	if rec.ManualPunchIn != nil {
		in = rec.ManualPunchIn
	}
	out = rec.PunchOutTime
	if rec.ManualPunchOut != nil {
		out = rec.ManualPunchOut
	}
	return in, out
}

// recalcDerived recomputes total hours, overtime and the lateness flags from
// the effective times. sh may be nil when the employee has no active shift;
// the total still gets computed, the shift-relative metrics are left alone.
func recalcDerived(rec *attendance.DailyAttendance, sh *shift.Shift, loc *time.Location) {
	in, out := effectiveTimes(rec)

	if in != nil && out != nil {
		rec.TotalHours = utils.RoundHours(math.Max(0, out.Sub(*in).Hours()))
	}

	if sh == nil || loc == nil {
		return
	}
	start, end, err := sh.BoundsOn(rec.Date, loc)
	if err != nil {
		return
	}

	if in != nil {
		grace := start.Add(time.Duration(sh.LateGracePeriod) * time.Minute)
		if in.After(grace) {
			rec.IsLate = true
			rec.LateMinutes = int(in.Sub(start).Minutes())
			if rec.Status == attendance.StatusPresent {
				rec.Status = attendance.StatusLate
			}
		} else {
			rec.IsLate = false
			rec.LateMinutes = 0
			if rec.Status == attendance.StatusLate {
				rec.Status = attendance.StatusPresent
			}
		}
	}

	if out != nil {
		earliest := end.Add(-time.Duration(sh.EarlyDepartureGrace) * time.Minute)
		if out.Before(earliest) {
			rec.EarlyDeparture = true
			rec.EarlyDepartureMinutes = int(end.Sub(*out).Minutes())
		} else {
			rec.EarlyDeparture = false
			rec.EarlyDepartureMinutes = 0
		}
	}

	if in != nil && out != nil && sh.OvertimeThreshold > 0 {
		threshold := float64(sh.OvertimeThreshold) / 60
		if rec.TotalHours > threshold {
			rec.OvertimeHours = utils.RoundHours(rec.TotalHours - threshold)
		} else {
			rec.OvertimeHours = 0
		}
	}
}
