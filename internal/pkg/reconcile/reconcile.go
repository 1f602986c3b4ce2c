// Package reconcile rebuilds shifts from raw clock punches.
//
// Reconcile is a pure function: it performs no I/O, keeps no state between calls and
// never fails on malformed punch data. Anomalies are reported through shift status
// instead of errors.
package reconcile

import (
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timesheet"
)

// Reconcile pairs the punches that fall inside [periodStart, periodEnd] into shifts,
// grouped by employee. Employees left without any shift are omitted.
//
// Shift dates use the location of each clock-in timestamp, so callers should convert
// timestamps to the business timezone first.
func Reconcile(entries []timeentry.TimeEntry, periodStart, periodEnd time.Time) map[string]timesheet.EmployeePeriodSummary {
	result := make(map[string]timesheet.EmployeePeriodSummary)
	if periodStart.After(periodEnd) {
		return result
	}

	// Grouping keeps input order inside each employee, which the stable sort
	// below relies on to break timestamp ties.
	var order []string
	grouped := make(map[string][]timeentry.TimeEntry)
	for _, entry := range entries {
		if entry.Timestamp.Before(periodStart) || entry.Timestamp.After(periodEnd) {
			continue
		}
		if _, seen := grouped[entry.EmployeeID]; !seen {
			order = append(order, entry.EmployeeID)
		}
		grouped[entry.EmployeeID] = append(grouped[entry.EmployeeID], entry)
	}

	for _, employeeID := range order {
		punches := grouped[employeeID]
		sort.SliceStable(punches, func(i, j int) bool {
			return punches[i].Timestamp.Before(punches[j].Timestamp)
		})

		summary := summarize(employeeID, punches)
		if len(summary.Shifts) == 0 {
			continue
		}
		result[employeeID] = summary
	}

	return result
}

// summarize walks one employee's chronologically sorted punches.
func summarize(employeeID string, punches []timeentry.TimeEntry) timesheet.EmployeePeriodSummary {
	summary := timesheet.EmployeePeriodSummary{
		EmployeeID: employeeID,
		Shifts:     make([]timesheet.DailyShift, 0, len(punches)/2+1),
	}

	// at most one open clock-in per employee
	var open *timeentry.TimeEntry

	for i := range punches {
		punch := punches[i]
		if summary.EmployeeName == "" {
			summary.EmployeeName = punch.EmployeeName
		}

		switch punch.Type {
		case timeentry.TypeClockIn:
			if open != nil {
				summary.Shifts = append(summary.Shifts, unresolvedShift(*open, timesheet.ShiftMissingOut))
				summary.MissingPunches++
			}
			open = &punch

		case timeentry.TypeClockOut:
			if open == nil {
				// orphan clock-out
				continue
			}
			shift := completedShift(*open, punch)
			summary.TotalMinutes += shift.DurationMinutes
			summary.Shifts = append(summary.Shifts, shift)
			open = nil
		}
	}

	if open != nil {
		summary.Shifts = append(summary.Shifts, unresolvedShift(*open, timesheet.ShiftActive))
	}

	summary.TotalHours = RoundHours(summary.TotalMinutes)

	sort.SliceStable(summary.Shifts, func(i, j int) bool {
		return summary.Shifts[i].ClockIn.After(summary.Shifts[j].ClockIn)
	})

	return summary
}

func completedShift(in, out timeentry.TimeEntry) timesheet.DailyShift {
	outID := out.ID
	clockOut := out.Timestamp

	minutes := int(out.Timestamp.Sub(in.Timestamp) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}

	return timesheet.DailyShift{
		ClockInID:       in.ID,
		ClockOutID:      &outID,
		Date:            localDay(in.Timestamp),
		ClockIn:         in.Timestamp,
		ClockOut:        &clockOut,
		DurationMinutes: minutes,
		Status:          timesheet.ShiftCompleted,
	}
}

func unresolvedShift(in timeentry.TimeEntry, status timesheet.ShiftStatus) timesheet.DailyShift {
	return timesheet.DailyShift{
		ClockInID:       in.ID,
		Date:            localDay(in.Timestamp),
		ClockIn:         in.Timestamp,
		DurationMinutes: 0,
		Status:          status,
	}
}

func localDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RoundHours converts minutes to hours rounded to two decimals.
func RoundHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}

// ActiveEmployees counts employees that currently hold an ACTIVE shift.
func ActiveEmployees(summaries map[string]timesheet.EmployeePeriodSummary) int {
	count := 0
	for _, summary := range summaries {
		for _, shift := range summary.Shifts {
			if shift.Status == timesheet.ShiftActive {
				count++
				break
			}
		}
	}
	return count
}

// MissingPunches sums missing clock-outs across all employees.
func MissingPunches(summaries map[string]timesheet.EmployeePeriodSummary) int {
	total := 0
	for _, summary := range summaries {
		total += summary.MissingPunches
	}
	return total
}
