package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/timeclock/internal/model"
)

// EmployeeRepo persists employee accounts.  Employees are never deleted.
type EmployeeRepo struct{ DB *sql.DB }

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{DB: db} }

// Create inserts an employee.  A taken code yields ErrDuplicate.
func (r *EmployeeRepo) Create(ctx context.Context, e model.Employee) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO employees (code, name, password_hash, role, company_id) VALUES (?,?,?,?,?)",
		e.Code, e.Name, e.PasswordHash, e.Role, nullableID(e.CompanyID))
	if err != nil && isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// GetByCode fetches an employee with its company name.
func (r *EmployeeRepo) GetByCode(ctx context.Context, code string) (model.Employee, error) {
	row := r.DB.QueryRowContext(ctx, employeeSelect+" WHERE e.code = ? LIMIT 1", code)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Employee{}, ErrNotFound
	}
	return e, err
}

// List returns all employees ordered by name.
func (r *EmployeeRepo) List(ctx context.Context) ([]model.Employee, error) {
	rows, err := r.DB.QueryContext(ctx, employeeSelect+" ORDER BY e.name, e.code")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Codes returns every employee code.
func (r *EmployeeRepo) Codes(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT code FROM employees")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Count returns the number of employees.
func (r *EmployeeRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM employees").Scan(&n)
	return n, err
}

// UpdatePasswordHash replaces the stored hash of one employee.
func (r *EmployeeRepo) UpdatePasswordHash(ctx context.Context, code, hash string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE employees SET password_hash = ? WHERE code = ?", hash, code)
	return err
}

const employeeSelect = `SELECT e.code, e.name, e.password_hash, e.role, e.company_id, COALESCE(c.name, '')
	FROM employees e LEFT JOIN companies c ON c.id = e.company_id`

func scanEmployee(s scanner) (model.Employee, error) {
	var (
		e   model.Employee
		cid sql.NullInt64
	)
	if err := s.Scan(&e.Code, &e.Name, &e.PasswordHash, &e.Role, &cid, &e.CompanyName); err != nil {
		return model.Employee{}, err
	}
	if cid.Valid {
		id := uint64(cid.Int64)
		e.CompanyID = &id
	}
	return e, nil
}

func nullableID(id *uint64) any {
	if id == nil {
		return nil
	}
	return *id
}
