package timeentry

import "context"

// TimeEntryService handles clock actions and admin corrections.
type TimeEntryService interface {
	// ClockIn records a CLOCK_IN punch for the authenticated employee
	ClockIn(ctx context.Context, req ClockRequest) (TimeEntryResponse, error)

	// ClockOut records a CLOCK_OUT punch for the authenticated employee
	ClockOut(ctx context.Context, req ClockRequest) (TimeEntryResponse, error)

	// GetClockStatus reports whether the authenticated employee is clocked in
	GetClockStatus(ctx context.Context) (ClockStatusResponse, error)

	ListTimeEntries(ctx context.Context, filter TimeEntryFilter) (ListTimeEntryResponse, error)

	GetTimeEntry(ctx context.Context, id string) (TimeEntryResponse, error)

	// FixMissingPunch appends an ADMIN clock-out for an abandoned clock-in
	FixMissingPunch(ctx context.Context, req FixMissingPunchRequest) (TimeEntryResponse, error)

	// EditShift rewrites the timestamps of a shift's punches
	EditShift(ctx context.Context, req EditShiftRequest) ([]TimeEntryResponse, error)
}
