package shift

import (
	"fmt"
	"time"
)

// Shift is the read-only shift configuration the punch engine compares
// effective punch times against. Scheduling policy is owned elsewhere.
type Shift struct {
	ID        string
	CompanyID string
	Name      string
	Code      string

	StartTime string // "HH:MM", local to the employee's timezone
	EndTime   string // "HH:MM"

	// Grace periods in minutes
	LateGracePeriod     int
	EarlyDepartureGrace int

	// Overtime kicks in past this many worked minutes.
	OvertimeThreshold int

	BreakDuration int // default break minutes
	IsActive      bool
}

// BoundsOn resolves the shift's start and end as absolute times on the
// given calendar day in loc.
func (s Shift) BoundsOn(date time.Time, loc *time.Location) (start, end time.Time, err error) {
	start, err = atClock(date, s.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid shift start time %q: %w", s.StartTime, err)
	}
	end, err = atClock(date, s.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid shift end time %q: %w", s.EndTime, err)
	}
	// Night shifts end on the following day.
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end, nil
}

func atClock(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
