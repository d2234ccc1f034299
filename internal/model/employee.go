package model

// Roles an employee account can have.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Employee mirrors the `employees` table.  The code is the login identifier
// and primary key.  Administrators are not bound to a company, so CompanyID
// is nil for them.
type Employee struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	PasswordHash string  `json:"-"`
	Role         string  `json:"role"`
	CompanyID    *uint64 `json:"company_id,omitempty"`
	CompanyName  string  `json:"company,omitempty"` // filled by joins
}

// IsAdmin reports whether the employee has the admin role.
func (e Employee) IsAdmin() bool { return e.Role == RoleAdmin }
