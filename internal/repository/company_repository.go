package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/timeclock/internal/model"
)

// DefaultCompanies are inserted into an empty companies table.
var DefaultCompanies = []string{"Ômega Barroso", "Ômega Matriz", "Ômega Cariri", "Ômega Sobral"}

// CompanyRepo reads the companies table.
type CompanyRepo struct {
	db *sql.DB
}

func NewCompanyRepo(db *sql.DB) *CompanyRepo { return &CompanyRepo{db: db} }

// List returns all companies ordered by name.
func (r *CompanyRepo) List(ctx context.Context) ([]model.Company, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM companies ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Company{}
	for rows.Next() {
		var c model.Company
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID fetches one company or ErrNotFound.
func (r *CompanyRepo) GetByID(ctx context.Context, id uint64) (model.Company, error) {
	var c model.Company
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM companies WHERE id = ?", id).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Company{}, ErrNotFound
	}
	return c, err
}

// SeedDefaults inserts DefaultCompanies when the table is empty and
// reports how many rows were written.
func (r *CompanyRepo) SeedDefaults(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM companies").Scan(&n); err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for _, name := range DefaultCompanies {
		if _, err := r.db.ExecContext(ctx, "INSERT INTO companies (name) VALUES (?)", name); err != nil {
			return 0, err
		}
	}
	return len(DefaultCompanies), nil
}
