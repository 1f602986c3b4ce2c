package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
	}
}

func hashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SetPIN implements employee.EmployeeService.
func (s *EmployeeServiceImpl) SetPIN(ctx context.Context, req employee.SetPINRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	claims, err := jwt.FromContext(ctx)
	if err != nil {
		return err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, claims.CompanyID)
	if err != nil {
		return err
	}

	if emp.EmploymentStatus != employee.EmploymentStatusActive {
		return employee.ErrEmployeeInactive
	}

	hash, err := hashPIN(req.PIN)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}

	if err := s.employeeRepo.UpdatePINHash(ctx, emp.ID, claims.CompanyID, hash); err != nil {
		return err
	}

	slog.Info("employee PIN updated", "employee_id", emp.ID, "company_id", claims.CompanyID, "updated_by", claims.UserID)
	return nil
}

// VerifyPIN implements employee.EmployeeService.
func (s *EmployeeServiceImpl) VerifyPIN(ctx context.Context, employeeID string, companyID string, pin string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return employee.Employee{}, err
	}

	if emp.PINHash == nil || *emp.PINHash == "" {
		return employee.Employee{}, timeentry.ErrPINNotSet
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*emp.PINHash), []byte(pin)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return employee.Employee{}, timeentry.ErrInvalidPIN
		}
		return employee.Employee{}, fmt.Errorf("failed to compare PIN: %w", err)
	}

	return emp, nil
}
