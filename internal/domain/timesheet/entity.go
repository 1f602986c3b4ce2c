package timesheet

import "time"

type ShiftStatus string

const (
	ShiftCompleted  ShiftStatus = "COMPLETED"
	ShiftActive     ShiftStatus = "ACTIVE"
	ShiftMissingOut ShiftStatus = "MISSING_OUT"
)

// DailyShift is a work interval rebuilt from punches on every reconciliation.
// It is never persisted.
type DailyShift struct {
	ClockInID       string
	ClockOutID      *string
	Date            time.Time // local midnight of the clock-in day
	ClockIn         time.Time
	ClockOut        *time.Time
	DurationMinutes int
	Status          ShiftStatus
}

// EmployeePeriodSummary aggregates one employee's shifts over a pay period.
type EmployeePeriodSummary struct {
	EmployeeID     string
	EmployeeName   string
	TotalMinutes   int
	TotalHours     float64
	Shifts         []DailyShift // newest clock-in first
	MissingPunches int
}

// Period is a closed [Start, End] window.
type Period struct {
	Start time.Time
	End   time.Time
	Label string
}
