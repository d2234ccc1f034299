package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/timeclock/internal/model"
	"github.com/iliyamo/timeclock/internal/repository"
	"github.com/iliyamo/timeclock/internal/utils"
)

// EmployeeWriter persists new employee accounts.
type EmployeeWriter interface {
	CreateEmployee(ctx context.Context, e model.Employee) error
}

// EmployeeService registers single employees.
type EmployeeService struct {
	Store      EmployeeWriter
	BcryptCost int
}

func NewEmployeeService(store EmployeeWriter, bcryptCost int) *EmployeeService {
	return &EmployeeService{Store: store, BcryptCost: bcryptCost}
}

// Add creates an employee bound to companyID.  All fields are required and
// the code must not be in use.
func (s *EmployeeService) Add(ctx context.Context, code, name, password string, companyID uint64) (Outcome, error) {
	code, name = strings.TrimSpace(code), strings.TrimSpace(name)
	if code == "" || name == "" || password == "" || companyID == 0 {
		return Outcome{}, &ValidationError{Message: "all fields are required"}
	}
	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return Outcome{}, fmt.Errorf("hash password: %w", err)
	}
	cid := companyID
	err = s.Store.CreateEmployee(ctx, model.Employee{
		Code:         code,
		Name:         name,
		PasswordHash: hash,
		Role:         model.RoleEmployee,
		CompanyID:    &cid,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return Outcome{}, &ValidationError{Field: "code", Message: fmt.Sprintf("code '%s' is already in use", code), Err: err}
	}
	if err != nil {
		return Outcome{}, storeErr("create employee", err)
	}
	return success("Employee '%s' added successfully!", name), nil
}
