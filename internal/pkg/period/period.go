// Package period resolves pay period boundaries.
//
// Every policy returns a closed window: End is the last nanosecond that still
// belongs to the period.
package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timesheet"
	"github.com/teambition/rrule-go"
)

// Policy maps a reference instant to the pay period containing it.
type Policy interface {
	Resolve(ref time.Time) (timesheet.Period, error)
}

// SemiMonthly splits each month into 1st-15th and 16th-end of month, in the
// location of the reference instant.
type SemiMonthly struct{}

func NewSemiMonthly() SemiMonthly {
	return SemiMonthly{}
}

func (SemiMonthly) Resolve(ref time.Time) (timesheet.Period, error) {
	loc := ref.Location()
	year, month, day := ref.Date()

	var start, next time.Time
	if day <= 15 {
		start = time.Date(year, month, 1, 0, 0, 0, 0, loc)
		next = time.Date(year, month, 16, 0, 0, 0, 0, loc)
	} else {
		start = time.Date(year, month, 16, 0, 0, 0, 0, loc)
		next = time.Date(year, month+1, 1, 0, 0, 0, 0, loc)
	}

	return newPeriod(start, next), nil
}

// RRule starts a new period at every occurrence of a recurrence rule, for example
// "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO" for biweekly payroll.
type RRule struct {
	rule *rrule.RRule
}

// NewRRule parses expr and anchors it at anchor, which also fixes the timezone
// and the time of day at which periods roll over.
func NewRRule(expr string, anchor time.Time) (*RRule, error) {
	opt, err := rrule.StrToROption(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pay period rule %q: %w", expr, err)
	}
	opt.Dtstart = anchor

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("invalid pay period rule %q: %w", expr, err)
	}

	return &RRule{rule: rule}, nil
}

func (p *RRule) Resolve(ref time.Time) (timesheet.Period, error) {
	start := p.rule.Before(ref, true)
	next := p.rule.After(ref, false)
	if start.IsZero() || next.IsZero() {
		return timesheet.Period{}, timesheet.ErrPeriodUnresolved
	}

	return newPeriod(start, next), nil
}

// FromConfig builds the policy named by rule. An empty rule or "semi-monthly"
// selects SemiMonthly; anything else is parsed as an RRULE.
func FromConfig(rule string, anchor time.Time) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(rule)) {
	case "", "semi-monthly", "semimonthly":
		return NewSemiMonthly(), nil
	default:
		return NewRRule(rule, anchor)
	}
}

// Explicit builds a closed window covering whole days from startDay through endDay.
func Explicit(startDay, endDay time.Time, loc *time.Location) timesheet.Period {
	start := time.Date(startDay.Year(), startDay.Month(), startDay.Day(), 0, 0, 0, 0, loc)
	next := time.Date(endDay.Year(), endDay.Month(), endDay.Day()+1, 0, 0, 0, 0, loc)
	return newPeriod(start, next)
}

func newPeriod(start, next time.Time) timesheet.Period {
	end := next.Add(-time.Nanosecond)
	return timesheet.Period{
		Start: start,
		End:   end,
		Label: label(start, end),
	}
}

func label(start, end time.Time) string {
	switch {
	case start.Year() != end.Year():
		return fmt.Sprintf("%s - %s", start.Format("2 Jan 2006"), end.Format("2 Jan 2006"))
	case start.Month() != end.Month():
		return fmt.Sprintf("%s - %s", start.Format("2 Jan"), end.Format("2 Jan 2006"))
	default:
		return fmt.Sprintf("%d-%s", start.Day(), end.Format("2 Jan 2006"))
	}
}
