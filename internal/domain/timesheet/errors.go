package timesheet

import "errors"

var (
	ErrInvalidPeriod       = errors.New("start date must not be after end date")
	ErrPeriodUnresolved    = errors.New("no pay period contains the reference date")
	ErrEmployeeNotInPeriod = errors.New("employee has no shifts in this period")
)
