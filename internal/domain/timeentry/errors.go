package timeentry

import "errors"

var (
	ErrTimeEntryNotFound     = errors.New("time entry not found")
	ErrNotClockIn            = errors.New("time entry is not a clock-in")
	ErrNotClockOut           = errors.New("time entry is not a clock-out")
	ErrClockOutBeforeClockIn = errors.New("clock-out cannot be before clock-in")
	ErrInvalidPIN            = errors.New("invalid PIN")
	ErrPINNotSet             = errors.New("employee has no PIN configured")
	ErrSnapshotRequired      = errors.New("face punches require a snapshot")
	ErrEntryEmployeeMismatch = errors.New("time entries belong to different employees")
)
