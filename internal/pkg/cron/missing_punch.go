package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/sse"
)

// DigestSource reconciles one company's current period
type DigestSource interface {
	MissingPunchDigest(ctx context.Context, companyID string, ref time.Time) (timesheet.Period, []timesheet.EmployeePeriodSummary, error)
}

// CompanyLister lists companies with punches since an instant
type CompanyLister interface {
	CompanyIDs(ctx context.Context, since time.Time) ([]string, error)
}

type DigestEntry struct {
	EmployeeID     string `json:"employee_id"`
	EmployeeName   string `json:"employee_name"`
	MissingPunches int    `json:"missing_punches"`
}

type DigestPayload struct {
	Period    string        `json:"period"`
	Employees []DigestEntry `json:"employees"`
}

type MissingPunchJobs struct {
	source   DigestSource
	lister   CompanyLister
	hub      *sse.Hub
	interval time.Duration
	lookback time.Duration
	now      func() time.Time
}

func NewMissingPunchJobs(source DigestSource, lister CompanyLister, hub *sse.Hub, interval time.Duration) *MissingPunchJobs {
	return &MissingPunchJobs{
		source:   source,
		lister:   lister,
		hub:      hub,
		interval: interval,
		lookback: 32 * 24 * time.Hour,
		now:      time.Now,
	}
}

func (j *MissingPunchJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("missing_punch_digest", j.interval, j.MissingPunchDigest)
}

// MissingPunchDigest reconciles the current period of every company with recent
// punches and reports employees holding MISSING_OUT shifts.
func (j *MissingPunchJobs) MissingPunchDigest(ctx context.Context) error {
	now := j.now()

	companyIDs, err := j.lister.CompanyIDs(ctx, now.Add(-j.lookback))
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	flaggedTotal := 0
	for _, companyID := range companyIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		p, flagged, err := j.source.MissingPunchDigest(ctx, companyID, now)
		if err != nil {
			slog.Error("Cron: Failed to build missing punch digest", "company_id", companyID, "error", err)
			continue
		}
		if len(flagged) == 0 {
			continue
		}

		payload := DigestPayload{Period: p.Label, Employees: make([]DigestEntry, 0, len(flagged))}
		for _, summary := range flagged {
			payload.Employees = append(payload.Employees, DigestEntry{
				EmployeeID:     summary.EmployeeID,
				EmployeeName:   summary.EmployeeName,
				MissingPunches: summary.MissingPunches,
			})
			slog.Warn("Cron: Missing punches detected",
				"company_id", companyID,
				"employee_id", summary.EmployeeID,
				"employee_name", summary.EmployeeName,
				"missing_punches", summary.MissingPunches,
				"period", p.Label,
			)
		}
		flaggedTotal += len(flagged)

		if j.hub != nil {
			j.hub.Publish(companyID, sse.Event{Event: sse.EventMissingPunchDigest, Data: payload})
		}
	}

	slog.Info("Cron: Missing punch digest completed", "companies", len(companyIDs), "flagged_employees", flaggedTotal)
	return nil
}
