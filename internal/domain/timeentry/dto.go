package timeentry

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// ========================================
// CLOCK DTOs
// ========================================

type ClockRequest struct {
	Method      string  `json:"method"`
	PIN         string  `json:"pin,omitempty"`
	SnapshotURL *string `json:"snapshot_url,omitempty"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
	validMethods := []string{string(MethodFace), string(MethodPIN), string(MethodRecovery)}
	if !validator.IsInSlice(r.Method, validMethods) {
		errs = append(errs, validator.ValidationError{
			Field:   "method",
			Message: "method must be one of: FACE, PIN, RECOVERY",
		})
	}

	if r.Method == string(MethodPIN) && !validator.IsValidPIN(r.PIN) {
		errs = append(errs, validator.ValidationError{
			Field:   "pin",
			Message: "pin must be 4 to 6 digits",
		})
	}

	if r.Method == string(MethodFace) && (r.SnapshotURL == nil || validator.IsEmpty(*r.SnapshotURL)) {
		errs = append(errs, validator.ValidationError{
			Field:   "snapshot_url",
			Message: "snapshot_url is required for FACE punches",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TimeEntryResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Type         string  `json:"type"`
	Timestamp    string  `json:"timestamp"`
	Method       string  `json:"method"`
	SnapshotURL  *string `json:"snapshot_url,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type ClockStatusResponse struct {
	EmployeeID  string             `json:"employee_id"`
	IsClockedIn bool               `json:"is_clocked_in"`
	LastPunch   *TimeEntryResponse `json:"last_punch,omitempty"`
	CanClockIn  bool               `json:"can_clock_in"`
	CanClockOut bool               `json:"can_clock_out"`
	Message     string             `json:"message"`
}

// ========================================
// LIST DTOs
// ========================================

type TimeEntryFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Type       *string `json:"type,omitempty"`
	Method     *string `json:"method,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *TimeEntryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Type != nil {
		upper := strings.ToUpper(*f.Type)
		f.Type = &upper
		if !EntryType(upper).IsValid() {
			errs = append(errs, validator.ValidationError{
				Field:   "type",
				Message: "type must be one of: CLOCK_IN, CLOCK_OUT",
			})
		}
	}

	if f.Method != nil {
		upper := strings.ToUpper(*f.Method)
		f.Method = &upper
		if !Method(upper).IsValid() {
			errs = append(errs, validator.ValidationError{
				Field:   "method",
				Message: "method must be one of: FACE, PIN, ADMIN, RECOVERY",
			})
		}
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // newest first
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListTimeEntryResponse struct {
	TotalCount  int64               `json:"total_count"`
	Page        int                 `json:"page"`
	Limit       int                 `json:"limit"`
	TotalPages  int                 `json:"total_pages"`
	Showing     string              `json:"showing"`
	TimeEntries []TimeEntryResponse `json:"time_entries"`
}

// ========================================
// CORRECTION DTOs
// ========================================

// FixMissingPunchRequest closes an abandoned clock-in with an ADMIN clock-out.
type FixMissingPunchRequest struct {
	ClockInID    string `json:"clock_in_id"`
	ClockOutTime string `json:"clock_out_time"` // RFC3339
}

func (r *FixMissingPunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ClockInID) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in_id",
			Message: "clock_in_id is required",
		})
	}

	if _, valid := validator.IsValidDateTime(r.ClockOutTime); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out_time",
			Message: "clock_out_time must be an RFC3339 timestamp",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EditShiftRequest rewrites the punch times of an existing shift.
type EditShiftRequest struct {
	ClockInID    string  `json:"clock_in_id"`
	ClockOutID   *string `json:"clock_out_id,omitempty"`
	ClockInTime  *string `json:"clock_in_time,omitempty"`  // RFC3339
	ClockOutTime *string `json:"clock_out_time,omitempty"` // RFC3339
}

func (r *EditShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ClockInID) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in_id",
			Message: "clock_in_id is required",
		})
	}

	if r.ClockInTime == nil && r.ClockOutTime == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in_time",
			Message: "at least one of clock_in_time or clock_out_time is required",
		})
	}

	if r.ClockInTime != nil {
		if _, valid := validator.IsValidDateTime(*r.ClockInTime); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_in_time",
				Message: "clock_in_time must be an RFC3339 timestamp",
			})
		}
	}

	if r.ClockOutTime != nil {
		if r.ClockOutID == nil || validator.IsEmpty(*r.ClockOutID) {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out_id",
				Message: "clock_out_id is required when clock_out_time is set",
			})
		}
		if _, valid := validator.IsValidDateTime(*r.ClockOutTime); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out_time",
				Message: "clock_out_time must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DateBounds turns StartDate and EndDate into a half-open UTC range [from, to)
// covering whole calendar days. Unset dates give nil bounds.
func (f TimeEntryFilter) DateBounds() (from, to *time.Time, err error) {
	if f.StartDate != nil && *f.StartDate != "" {
		start, err := time.Parse("2006-01-02", *f.StartDate)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start date: %w", err)
		}
		from = &start
	}
	if f.EndDate != nil && *f.EndDate != "" {
		end, err := time.Parse("2006-01-02", *f.EndDate)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end date: %w", err)
		}
		next := end.AddDate(0, 0, 1)
		to = &next
	}
	return from, to, nil
}
