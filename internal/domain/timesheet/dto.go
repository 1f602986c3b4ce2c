package timesheet

import (
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// TimesheetRequest selects the reconciliation window. Either Date (any day inside the
// wanted pay period) or both StartDate and EndDate may be set; with neither, the period
// containing today is used.
type TimesheetRequest struct {
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (r *TimesheetRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil {
		if _, valid := validator.IsValidDate(*r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	hasStart := r.StartDate != nil && *r.StartDate != ""
	hasEnd := r.EndDate != nil && *r.EndDate != ""
	if hasStart != hasEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date and end_date must be provided together",
		})
	}

	if hasStart && hasEnd {
		start, validStart := validator.IsValidDate(*r.StartDate)
		if !validStart {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
		end, validEnd := validator.IsValidDate(*r.EndDate)
		if !validEnd {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
		if validStart && validEnd && start.After(end) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PeriodResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

type ShiftResponse struct {
	ClockInID       string  `json:"clock_in_id"`
	ClockOutID      *string `json:"clock_out_id,omitempty"`
	Date            string  `json:"date"`
	ClockIn         string  `json:"clock_in"`
	ClockOut        *string `json:"clock_out,omitempty"`
	DurationMinutes int     `json:"duration_minutes"`
	Status          string  `json:"status"`
}

type EmployeeSummaryResponse struct {
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   string          `json:"employee_name"`
	TotalMinutes   int             `json:"total_minutes"`
	TotalHours     float64         `json:"total_hours"`
	MissingPunches int             `json:"missing_punches"`
	EstimatedCost  string          `json:"estimated_cost"`
	Shifts         []ShiftResponse `json:"shifts"`
}

type TimesheetResponse struct {
	Period         PeriodResponse            `json:"period"`
	TotalEmployees int                       `json:"total_employees"`
	Employees      []EmployeeSummaryResponse `json:"employees"`
}

type DashboardResponse struct {
	Period          PeriodResponse `json:"period"`
	ActiveEmployees int            `json:"active_employees"`
	MissingPunches  int            `json:"missing_punches"`
	TotalHours      float64        `json:"total_hours"`
	HourlyRate      string         `json:"hourly_rate"`
	EstimatedCost   string         `json:"estimated_cost"`
}
