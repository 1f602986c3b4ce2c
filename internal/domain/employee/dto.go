package employee

import "github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"

type SetPINRequest struct {
	EmployeeID string `json:"-"`
	PIN        string `json:"pin"`
}

func (r *SetPINRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !validator.IsValidPIN(r.PIN) {
		errs = append(errs, validator.ValidationError{
			Field:   "pin",
			Message: "pin must be 4 to 6 digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
