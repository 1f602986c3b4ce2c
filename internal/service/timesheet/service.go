package timesheet

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/reconcile"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

type TimesheetServiceImpl struct {
	timeEntryRepo timeentry.TimeEntryRepository
	policy        period.Policy
	loc           *time.Location
	hourlyRate    decimal.Decimal
	now           func() time.Time
}

func NewTimesheetService(
	timeEntryRepo timeentry.TimeEntryRepository,
	policy period.Policy,
	loc *time.Location,
	hourlyRate decimal.Decimal,
) *TimesheetServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &TimesheetServiceImpl{
		timeEntryRepo: timeEntryRepo,
		policy:        policy,
		loc:           loc,
		hourlyRate:    hourlyRate,
		now:           time.Now,
	}
}

var _ timesheet.TimesheetService = (*TimesheetServiceImpl)(nil)

// resolveWindow turns a request into a closed period in the service location.
// Explicit dates win over Date; with neither, the period containing now is used.
func (s *TimesheetServiceImpl) resolveWindow(req timesheet.TimesheetRequest) (timesheet.Period, error) {
	if req.StartDate != nil && *req.StartDate != "" {
		start, _ := validator.IsValidDate(*req.StartDate)
		end, _ := validator.IsValidDate(*req.EndDate)
		return period.Explicit(start, end, s.loc), nil
	}

	ref := s.now().In(s.loc)
	if req.Date != nil && *req.Date != "" {
		day, _ := validator.IsValidDate(*req.Date)
		ref = time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, s.loc)
	}

	p, err := s.policy.Resolve(ref)
	if err != nil {
		return timesheet.Period{}, fmt.Errorf("failed to resolve pay period: %w", err)
	}
	return p, nil
}

// reconcileCompany loads a snapshot for the window and reconciles it in the service location.
func (s *TimesheetServiceImpl) reconcileCompany(ctx context.Context, companyID string, p timesheet.Period, employeeID string) (map[string]timesheet.EmployeePeriodSummary, error) {
	entries, err := s.timeEntryRepo.ListByRange(ctx, companyID, p.Start, p.End, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load time entries: %w", err)
	}

	for i := range entries {
		entries[i].Timestamp = entries[i].Timestamp.In(s.loc)
	}
	// the engine keeps input order on equal timestamps
	timeentry.SortChronological(entries)

	return reconcile.Reconcile(entries, p.Start, p.End), nil
}

// GetTimesheet implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) GetTimesheet(ctx context.Context, req timesheet.TimesheetRequest) (timesheet.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	claims, err := jwt.FromContext(ctx)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	p, err := s.resolveWindow(req)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	summaries, err := s.reconcileCompany(ctx, claims.CompanyID, p, "")
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	employees := make([]timesheet.EmployeeSummaryResponse, 0, len(summaries))
	for _, summary := range sortedSummaries(summaries) {
		employees = append(employees, s.mapSummary(summary))
	}

	return timesheet.TimesheetResponse{
		Period:         s.mapPeriod(p),
		TotalEmployees: len(employees),
		Employees:      employees,
	}, nil
}

// GetEmployeeTimesheet implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) GetEmployeeTimesheet(ctx context.Context, employeeID string, req timesheet.TimesheetRequest) (timesheet.EmployeeSummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.EmployeeSummaryResponse{}, err
	}

	claims, err := jwt.FromContext(ctx)
	if err != nil {
		return timesheet.EmployeeSummaryResponse{}, err
	}

	if employeeID == "me" {
		employeeID = claims.EmployeeID
	}
	if employeeID == "" {
		return timesheet.EmployeeSummaryResponse{}, user.ErrEmployeeIDRequired
	}

	if !user.HasPermission(claims.Role, user.PermissionTimesheetViewAll) && employeeID != claims.EmployeeID {
		return timesheet.EmployeeSummaryResponse{}, employee.ErrUnauthorized
	}

	p, err := s.resolveWindow(req)
	if err != nil {
		return timesheet.EmployeeSummaryResponse{}, err
	}

	summaries, err := s.reconcileCompany(ctx, claims.CompanyID, p, employeeID)
	if err != nil {
		return timesheet.EmployeeSummaryResponse{}, err
	}

	summary, ok := summaries[employeeID]
	if !ok {
		return timesheet.EmployeeSummaryResponse{}, timesheet.ErrEmployeeNotInPeriod
	}

	return s.mapSummary(summary), nil
}

// GetCurrentPeriod implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) GetCurrentPeriod(ctx context.Context, ref time.Time) (timesheet.PeriodResponse, error) {
	if ref.IsZero() {
		ref = s.now()
	}

	p, err := s.policy.Resolve(ref.In(s.loc))
	if err != nil {
		return timesheet.PeriodResponse{}, fmt.Errorf("failed to resolve pay period: %w", err)
	}

	return s.mapPeriod(p), nil
}

// GetDashboard implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) GetDashboard(ctx context.Context) (timesheet.DashboardResponse, error) {
	claims, err := jwt.FromContext(ctx)
	if err != nil {
		return timesheet.DashboardResponse{}, err
	}

	p, err := s.resolveWindow(timesheet.TimesheetRequest{})
	if err != nil {
		return timesheet.DashboardResponse{}, err
	}

	summaries, err := s.reconcileCompany(ctx, claims.CompanyID, p, "")
	if err != nil {
		return timesheet.DashboardResponse{}, err
	}

	totalMinutes := 0
	for _, summary := range summaries {
		totalMinutes += summary.TotalMinutes
	}

	return timesheet.DashboardResponse{
		Period:          s.mapPeriod(p),
		ActiveEmployees: reconcile.ActiveEmployees(summaries),
		MissingPunches:  reconcile.MissingPunches(summaries),
		TotalHours:      reconcile.RoundHours(totalMinutes),
		HourlyRate:      s.hourlyRate.StringFixed(2),
		EstimatedCost:   s.estimateCost(totalMinutes),
	}, nil
}

// MissingPunchDigest reconciles the period containing ref for one company and
// returns the employees that still have missing clock-outs.
func (s *TimesheetServiceImpl) MissingPunchDigest(ctx context.Context, companyID string, ref time.Time) (timesheet.Period, []timesheet.EmployeePeriodSummary, error) {
	p, err := s.policy.Resolve(ref.In(s.loc))
	if err != nil {
		return timesheet.Period{}, nil, fmt.Errorf("failed to resolve pay period: %w", err)
	}

	summaries, err := s.reconcileCompany(ctx, companyID, p, "")
	if err != nil {
		return timesheet.Period{}, nil, err
	}

	flagged := make([]timesheet.EmployeePeriodSummary, 0)
	for _, summary := range sortedSummaries(summaries) {
		if summary.MissingPunches > 0 {
			flagged = append(flagged, summary)
		}
	}

	return p, flagged, nil
}

func (s *TimesheetServiceImpl) estimateCost(totalMinutes int) string {
	return decimal.NewFromInt(int64(totalMinutes)).
		Div(minutesPerHour).
		Mul(s.hourlyRate).
		StringFixed(2)
}

func sortedSummaries(summaries map[string]timesheet.EmployeePeriodSummary) []timesheet.EmployeePeriodSummary {
	out := make([]timesheet.EmployeePeriodSummary, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeName != out[j].EmployeeName {
			return out[i].EmployeeName < out[j].EmployeeName
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

func (s *TimesheetServiceImpl) mapPeriod(p timesheet.Period) timesheet.PeriodResponse {
	return timesheet.PeriodResponse{
		Start: p.Start.In(s.loc).Format(time.RFC3339),
		End:   p.End.In(s.loc).Format(time.RFC3339),
		Label: p.Label,
	}
}

func (s *TimesheetServiceImpl) mapSummary(summary timesheet.EmployeePeriodSummary) timesheet.EmployeeSummaryResponse {
	shifts := make([]timesheet.ShiftResponse, 0, len(summary.Shifts))
	for _, shift := range summary.Shifts {
		resp := timesheet.ShiftResponse{
			ClockInID:       shift.ClockInID,
			ClockOutID:      shift.ClockOutID,
			Date:            shift.Date.Format("2006-01-02"),
			ClockIn:         shift.ClockIn.In(s.loc).Format(time.RFC3339),
			DurationMinutes: shift.DurationMinutes,
			Status:          string(shift.Status),
		}
		if shift.ClockOut != nil {
			out := shift.ClockOut.In(s.loc).Format(time.RFC3339)
			resp.ClockOut = &out
		}
		shifts = append(shifts, resp)
	}

	return timesheet.EmployeeSummaryResponse{
		EmployeeID:     summary.EmployeeID,
		EmployeeName:   summary.EmployeeName,
		TotalMinutes:   summary.TotalMinutes,
		TotalHours:     summary.TotalHours,
		MissingPunches: summary.MissingPunches,
		EstimatedCost:  s.estimateCost(summary.TotalMinutes),
		Shifts:         shifts,
	}
}
