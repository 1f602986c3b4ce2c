package timeentry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

type TimeEntryServiceImpl struct {
	timeEntryRepo   timeentry.TimeEntryRepository
	employeeRepo    employee.EmployeeRepository
	employeeService employee.EmployeeService
	transactor      timeentry.Transactor
	hub             *sse.Hub
	loc             *time.Location
	now             func() time.Time
}

func NewTimeEntryService(
	timeEntryRepo timeentry.TimeEntryRepository,
	employeeRepo employee.EmployeeRepository,
	employeeService employee.EmployeeService,
	transactor timeentry.Transactor,
	hub *sse.Hub,
	loc *time.Location,
) *TimeEntryServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &TimeEntryServiceImpl{
		timeEntryRepo:   timeEntryRepo,
		employeeRepo:    employeeRepo,
		employeeService: employeeService,
		transactor:      transactor,
		hub:             hub,
		loc:             loc,
		now:             time.Now,
	}
}

// ClockIn implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) ClockIn(ctx context.Context, req timeentry.ClockRequest) (timeentry.TimeEntryResponse, error) {
	return s.punch(ctx, timeentry.TypeClockIn, req)
}

// ClockOut implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) ClockOut(ctx context.Context, req timeentry.ClockRequest) (timeentry.TimeEntryResponse, error) {
	return s.punch(ctx, timeentry.TypeClockOut, req)
}

// punch records a punch unconditionally. Double clock-ins and orphan clock-outs
// are stored as-is and resolved during reconciliation.
func (s *TimeEntryServiceImpl) punch(ctx context.Context, entryType timeentry.EntryType, req timeentry.ClockRequest) (timeentry.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	claims, err := jwt.FromContext(ctx)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	if claims.EmployeeID == "" {
		return timeentry.TimeEntryResponse{}, user.ErrEmployeeIDRequired
	}

	var emp employee.Employee
	if timeentry.Method(req.Method) == timeentry.MethodPIN {
		emp, err = s.employeeService.VerifyPIN(ctx, claims.EmployeeID, claims.CompanyID, req.PIN)
	} else {
		emp, err = s.employeeRepo.GetByID(ctx, claims.EmployeeID, claims.CompanyID)
	}
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	if emp.EmploymentStatus != employee.EmploymentStatusActive {
		return timeentry.TimeEntryResponse{}, employee.ErrEmployeeInactive
	}

	entry, err := s.timeEntryRepo.Create(ctx, timeentry.TimeEntry{
		CompanyID:    claims.CompanyID,
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		Type:         entryType,
		Timestamp:    s.now().UTC(),
		Method:       timeentry.Method(req.Method),
		SnapshotURL:  req.SnapshotURL,
	})
	if err != nil {
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to record punch: %w", err)
	}

	resp := s.mapToResponse(entry)

	slog.Info("punch recorded",
		"entry_id", entry.ID,
		"employee_id", entry.EmployeeID,
		"company_id", entry.CompanyID,
		"type", entry.Type,
		"method", entry.Method,
	)

	if s.hub != nil {
		s.hub.Publish(claims.CompanyID, sse.Event{Event: sse.EventPunchRecorded, Data: resp})
	}

	return resp, nil
}

// GetClockStatus implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) GetClockStatus(ctx context.Context) (timeentry.ClockStatusResponse, error) {
	claims, err := jwt.FromContext(ctx)
	if err != nil {
		return timeentry.ClockStatusResponse{}, err
	}
	if claims.EmployeeID == "" {
		return timeentry.ClockStatusResponse{}, user.ErrEmployeeIDRequired
	}

	latest, err := s.timeEntryRepo.GetLatestByEmployee(ctx, claims.EmployeeID, claims.CompanyID)
	if err != nil {
		if errors.Is(err, timeentry.ErrTimeEntryNotFound) {
			return timeentry.ClockStatusResponse{
				EmployeeID:  claims.EmployeeID,
				CanClockIn:  true,
				CanClockOut: false,
				Message:     "No punches recorded yet",
			}, nil
		}
		return timeentry.ClockStatusResponse{}, fmt.Errorf("failed to get latest punch: %w", err)
	}

	last := s.mapToResponse(latest)
	status := timeentry.ClockStatusResponse{
		EmployeeID: claims.EmployeeID,
		LastPunch:  &last,
	}

	if latest.Type == timeentry.TypeClockIn {
		status.IsClockedIn = true
		status.CanClockIn = false
		status.CanClockOut = true
		status.Message = fmt.Sprintf("Clocked in since %s", latest.Timestamp.In(s.loc).Format("2006-01-02 15:04"))
	} else {
		status.CanClockIn = true
		status.CanClockOut = false
		status.Message = fmt.Sprintf("Clocked out at %s", latest.Timestamp.In(s.loc).Format("2006-01-02 15:04"))
	}

	return status, nil
}

// ListTimeEntries implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) ListTimeEntries(ctx context.Context, filter timeentry.TimeEntryFilter) (timeentry.ListTimeEntryResponse, error) {
	if err := filter.Validate(); err != nil {
		return timeentry.ListTimeEntryResponse{}, err
	}

	claims, err := jwt.FromContext(ctx)
	if err != nil {
		return timeentry.ListTimeEntryResponse{}, err
	}

	// Employees only see their own punches
	if !user.HasPermission(claims.Role, user.PermissionTimeEntryViewAll) {
		if claims.EmployeeID == "" {
			return timeentry.ListTimeEntryResponse{}, user.ErrEmployeeIDRequired
		}
		filter.EmployeeID = &claims.EmployeeID
	}

	entries, total, err := s.timeEntryRepo.List(ctx, filter, claims.CompanyID)
	if err != nil {
		return timeentry.ListTimeEntryResponse{}, fmt.Errorf("failed to list time entries: %w", err)
	}

	responses := make([]timeentry.TimeEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, s.mapToResponse(e))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return timeentry.ListTimeEntryResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		TimeEntries: responses,
	}, nil
}

// GetTimeEntry implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) GetTimeEntry(ctx context.Context, id string) (timeentry.TimeEntryResponse, error) {
	if !validator.IsValidUUID(id) {
		return timeentry.TimeEntryResponse{}, timeentry.ErrTimeEntryNotFound
	}

	claims, err := jwt.FromContext(ctx)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	entry, err := s.timeEntryRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	if !user.HasPermission(claims.Role, user.PermissionTimeEntryViewAll) && entry.EmployeeID != claims.EmployeeID {
		return timeentry.TimeEntryResponse{}, employee.ErrUnauthorized
	}

	return s.mapToResponse(entry), nil
}

// FixMissingPunch implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) FixMissingPunch(ctx context.Context, req timeentry.FixMissingPunchRequest) (timeentry.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	claims, err := jwt.FromContext(ctx)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	clockIn, err := s.timeEntryRepo.GetByID(ctx, req.ClockInID, claims.CompanyID)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	if clockIn.Type != timeentry.TypeClockIn {
		return timeentry.TimeEntryResponse{}, timeentry.ErrNotClockIn
	}

	clockOutTime, _ := validator.IsValidDateTime(req.ClockOutTime)
	if clockOutTime.Before(clockIn.Timestamp) {
		return timeentry.TimeEntryResponse{}, timeentry.ErrClockOutBeforeClockIn
	}

	entry, err := s.timeEntryRepo.Create(ctx, timeentry.TimeEntry{
		CompanyID:    claims.CompanyID,
		EmployeeID:   clockIn.EmployeeID,
		EmployeeName: clockIn.EmployeeName,
		Type:         timeentry.TypeClockOut,
		Timestamp:    clockOutTime.UTC(),
		Method:       timeentry.MethodAdmin,
	})
	if err != nil {
		return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to record corrective clock-out: %w", err)
	}

	slog.Info("missing punch fixed",
		"clock_in_id", clockIn.ID,
		"clock_out_id", entry.ID,
		"employee_id", entry.EmployeeID,
		"company_id", claims.CompanyID,
		"corrected_by", claims.UserID,
	)

	resp := s.mapToResponse(entry)
	if s.hub != nil {
		s.hub.Publish(claims.CompanyID, sse.Event{Event: sse.EventShiftCorrected, Data: resp})
	}

	return resp, nil
}

// EditShift implements timeentry.TimeEntryService.
func (s *TimeEntryServiceImpl) EditShift(ctx context.Context, req timeentry.EditShiftRequest) ([]timeentry.TimeEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	claims, err := jwt.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	var updated []timeentry.TimeEntry
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		clockIn, err := s.timeEntryRepo.GetByID(ctx, req.ClockInID, claims.CompanyID)
		if err != nil {
			return err
		}
		if clockIn.Type != timeentry.TypeClockIn {
			return timeentry.ErrNotClockIn
		}

		var clockOut *timeentry.TimeEntry
		if req.ClockOutID != nil && *req.ClockOutID != "" {
			out, err := s.timeEntryRepo.GetByID(ctx, *req.ClockOutID, claims.CompanyID)
			if err != nil {
				return err
			}
			if out.Type != timeentry.TypeClockOut {
				return timeentry.ErrNotClockOut
			}
			if out.EmployeeID != clockIn.EmployeeID {
				return timeentry.ErrEntryEmployeeMismatch
			}
			clockOut = &out
		}

		if req.ClockInTime != nil {
			t, _ := validator.IsValidDateTime(*req.ClockInTime)
			clockIn.Timestamp = t.UTC()
		}
		if clockOut != nil && req.ClockOutTime != nil {
			t, _ := validator.IsValidDateTime(*req.ClockOutTime)
			clockOut.Timestamp = t.UTC()
		}

		if clockOut != nil && clockOut.Timestamp.Before(clockIn.Timestamp) {
			return timeentry.ErrClockOutBeforeClockIn
		}

		if req.ClockInTime != nil {
			if err := s.timeEntryRepo.UpdateTimestamp(ctx, clockIn.ID, claims.CompanyID, clockIn.Timestamp); err != nil {
				return err
			}
		}
		updated = append(updated, clockIn)

		if clockOut != nil {
			if req.ClockOutTime != nil {
				if err := s.timeEntryRepo.UpdateTimestamp(ctx, clockOut.ID, claims.CompanyID, clockOut.Timestamp); err != nil {
					return err
				}
			}
			updated = append(updated, *clockOut)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	responses := make([]timeentry.TimeEntryResponse, 0, len(updated))
	for _, e := range updated {
		responses = append(responses, s.mapToResponse(e))
	}

	slog.Info("shift edited", "clock_in_id", req.ClockInID, "company_id", claims.CompanyID, "corrected_by", claims.UserID)

	if s.hub != nil {
		s.hub.Publish(claims.CompanyID, sse.Event{Event: sse.EventShiftCorrected, Data: responses})
	}

	return responses, nil
}

func (s *TimeEntryServiceImpl) mapToResponse(e timeentry.TimeEntry) timeentry.TimeEntryResponse {
	return timeentry.TimeEntryResponse{
		ID:           e.ID,
		EmployeeID:   e.EmployeeID,
		EmployeeName: e.EmployeeName,
		Type:         string(e.Type),
		Timestamp:    e.Timestamp.In(s.loc).Format(time.RFC3339),
		Method:       string(e.Method),
		SnapshotURL:  e.SnapshotURL,
		CreatedAt:    e.CreatedAt.In(s.loc).Format(time.RFC3339),
	}
}

var _ timeentry.TimeEntryService = (*TimeEntryServiceImpl)(nil)
