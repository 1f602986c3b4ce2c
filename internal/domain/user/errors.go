package user

import "errors"

var (
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrEmployeeIDRequired      = errors.New("employee ID is required")
)
