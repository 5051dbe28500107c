package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")

	// ErrDayAlreadyExists signals that the unique (employee_id, date) key was
	// taken by a concurrent insert. The punch engine retries once as an
	// update against the winning row.
	ErrDayAlreadyExists = errors.New("attendance record for this day already exists")

	// ErrPersistenceConflict surfaces when the create race retry also fails;
	// callers should treat it as transient.
	ErrPersistenceConflict = errors.New("attendance record is being modified concurrently")
)

// OutOfRangeError rejects a punch outside the company geofence. It carries
// the computed distance so the caller can render "you are Nm away, must be
// within Rm".
type OutOfRangeError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("you are %.0fm away from office, must be within %.0fm", e.DistanceMeters, e.RadiusMeters)
}
