package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrMissingClaims):
		Unauthorized(w, "Token is missing required claims")

	// User domain errors
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrEmployeeIDRequired):
		Forbidden(w, "This action requires an employee account")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is not active")
	case errors.Is(err, employee.ErrUnauthorized):
		Forbidden(w, "Not allowed to access this employee's records")

	// Time entry domain errors
	case errors.Is(err, timeentry.ErrTimeEntryNotFound):
		NotFound(w, "Time entry not found")
	case errors.Is(err, timeentry.ErrNotClockIn),
		errors.Is(err, timeentry.ErrNotClockOut),
		errors.Is(err, timeentry.ErrClockOutBeforeClockIn),
		errors.Is(err, timeentry.ErrEntryEmployeeMismatch),
		errors.Is(err, timeentry.ErrSnapshotRequired):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, timeentry.ErrInvalidPIN):
		Unauthorized(w, "Invalid PIN")
	case errors.Is(err, timeentry.ErrPINNotSet):
		Conflict(w, "Employee has no PIN configured")

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrInvalidPeriod),
		errors.Is(err, timesheet.ErrPeriodUnresolved):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, timesheet.ErrEmployeeNotInPeriod):
		NotFound(w, "No shifts for this employee in the period")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
