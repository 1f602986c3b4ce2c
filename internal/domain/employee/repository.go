package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	UpdatePINHash(ctx context.Context, id string, companyID string, pinHash string) error
}
