package employee

import "context"

type EmployeeService interface {
	// SetPIN stores a bcrypt hash of the employee's clock PIN
	SetPIN(ctx context.Context, req SetPINRequest) error

	// VerifyPIN checks a clear-text PIN against the stored hash
	VerifyPIN(ctx context.Context, employeeID string, companyID string, pin string) (Employee, error)
}
