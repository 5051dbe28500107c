package response

import (
	"errors"
	"net/http"

	"github.com/DurgarajC07/hrms-saas/internal/domain/attendance"
	"github.com/DurgarajC07/hrms-saas/internal/domain/employee"
	"github.com/DurgarajC07/hrms-saas/internal/domain/shift"
	"github.com/DurgarajC07/hrms-saas/internal/domain/user"
	"github.com/DurgarajC07/hrms-saas/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// A geofence rejection carries the distance; surface it verbatim.
	var outOfRange *attendance.OutOfRangeError
	if errors.As(err, &outOfRange) {
		BadRequest(w, outOfRange.Error(), nil)
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrDayAlreadyExists):
		Conflict(w, "Attendance record for this day already exists")
	case errors.Is(err, attendance.ErrPersistenceConflict):
		Conflict(w, "Attendance record is being modified, please retry")

	// Collaborator lookups
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")

	// Auth errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, user.ErrHRAccessRequired):
		Forbidden(w, "HR or admin access required")
	case errors.Is(err, user.ErrViewerAccessRequired):
		Forbidden(w, "Manager or HR access required")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
