package attendance

import (
	"math"

	"github.com/DurgarajC07/hrms-saas/internal/domain/attendance"
	"github.com/DurgarajC07/hrms-saas/internal/pkg/utils"
)

// ComputeStatistics folds a range of daily records into summary figures. An
// empty range yields all zeros; a record counts as a present day when its
// status is present or late, and late days count toward both.
func ComputeStatistics(records []attendance.DailyAttendance) attendance.Statistics {
	stats := attendance.Statistics{TotalDays: len(records)}

	for _, rec := range records {
		switch rec.Status {
		case attendance.StatusPresent, attendance.StatusLate:
			stats.PresentDays++
		case attendance.StatusAbsent:
			stats.AbsentDays++
		case attendance.StatusHalfDay:
			stats.HalfDays++
		case attendance.StatusOnLeave:
			stats.LeaveDays++
		}
		if rec.IsLate {
			stats.LateDays++
		}
		stats.TotalHours += rec.TotalHours
		stats.OvertimeHours += rec.OvertimeHours
	}

	stats.TotalHours = utils.RoundHours(stats.TotalHours)
	stats.OvertimeHours = utils.RoundHours(stats.OvertimeHours)

	if stats.TotalDays > 0 {
		stats.AverageHoursPerDay = utils.RoundHours(stats.TotalHours / float64(stats.TotalDays))
		onTime := stats.TotalDays - stats.LateDays
		stats.PunctualityPercentage = math.Round(float64(onTime)/float64(stats.TotalDays)*100*100) / 100
	}

	return stats
}
