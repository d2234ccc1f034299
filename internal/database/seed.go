package database

import (
	"context"
	"database/sql"
	"log"

	"github.com/iliyamo/timeclock/internal/model"
	"github.com/iliyamo/timeclock/internal/repository"
)

// AdminCode is the login of the seeded administrator.
const AdminCode = "admin"

// Seed inserts the default companies and the administrator account when
// they are missing.  adminHash is the already hashed admin password.
func Seed(ctx context.Context, db *sql.DB, adminHash string) error {
	n, err := repository.NewCompanyRepo(db).SeedDefaults(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("seed: %d companies created", n)
	}

	employees := repository.NewEmployeeRepo(db)
	if _, err := employees.GetByCode(ctx, AdminCode); err == nil {
		return nil
	} else if err != repository.ErrNotFound {
		return err
	}
	err = employees.Create(ctx, model.Employee{
		Code:         AdminCode,
		Name:         "Administrador",
		PasswordHash: adminHash,
		Role:         model.RoleAdmin,
	})
	if err != nil {
		return err
	}
	log.Printf("seed: admin user created")
	return nil
}
