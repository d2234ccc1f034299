package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/timeclock/internal/attendance"
	"github.com/iliyamo/timeclock/internal/config"
	"github.com/iliyamo/timeclock/internal/database"
	"github.com/iliyamo/timeclock/internal/directory"
	"github.com/iliyamo/timeclock/internal/importer"
	"github.com/iliyamo/timeclock/internal/repository"
	"github.com/iliyamo/timeclock/internal/utils"
)

// app holds the dependencies shared by every command.
type app struct {
	cfg       config.Config
	db        *sql.DB
	punches   *repository.PunchRepo
	tokens    *repository.TokenRepo
	dir       *directory.Directory
	evaluator attendance.Evaluator
}

func dsn(cfg config.Config) string {
	if cfg.DBDriver == database.DriverSQLite {
		return database.SQLiteDSN(cfg.DBPath)
	}
	return database.MySQLDSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

// buildEvaluator turns the attendance settings into an Evaluator.
func buildEvaluator(att config.Attendance) (attendance.Evaluator, error) {
	sched, err := attendance.ParseSchedule(att.Slots)
	if err != nil {
		return attendance.Evaluator{}, fmt.Errorf("schedule: %w", err)
	}
	return attendance.NewEvaluator(sched, att.Tolerance, att.Location), nil
}

// openApp connects to the database, applies the schema and seeds the
// default companies and admin account.
func openApp(ctx context.Context, cfg config.Config) (*app, error) {
	eval, err := buildEvaluator(cfg.Attendance)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(cfg.DBDriver, dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if err := migrate(ctx, db, cfg); err != nil {
		db.Close()
		return nil, err
	}
	employees := repository.NewEmployeeRepo(db)
	dir, err := directory.New(employees, repository.NewCompanyRepo(db), directory.DefaultSize)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &app{
		cfg:       cfg,
		db:        db,
		punches:   repository.NewPunchRepo(db),
		tokens:    repository.NewTokenRepo(db),
		dir:       dir,
		evaluator: eval,
	}, nil
}

func migrate(ctx context.Context, db *sql.DB, cfg config.Config) error {
	if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
		return err
	}
	hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	return database.Seed(ctx, db, hash)
}

func (a *app) importer() *importer.Importer {
	cost := a.cfg.BcryptCost
	return importer.New(a.dir, func(p string) (string, error) { return utils.HashPassword(p, cost) })
}

func (a *app) Close() error { return a.db.Close() }
