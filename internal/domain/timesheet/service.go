package timesheet

import (
	"context"
	"time"
)

// TimesheetService reconciles stored punches into shifts and totals.
type TimesheetService interface {
	// GetTimesheet reconciles the whole company for a period
	GetTimesheet(ctx context.Context, req TimesheetRequest) (TimesheetResponse, error)

	// GetEmployeeTimesheet reconciles a single employee for a period
	GetEmployeeTimesheet(ctx context.Context, employeeID string, req TimesheetRequest) (EmployeeSummaryResponse, error)

	GetCurrentPeriod(ctx context.Context, ref time.Time) (PeriodResponse, error)

	GetDashboard(ctx context.Context) (DashboardResponse, error)
}
