package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/timeclock/internal/model"
)

// PunchRepo is the record store for punch events.  Rows are appended once
// and later only their time, deviation and note change.
type PunchRepo struct {
	db *sql.DB
}

// NewPunchRepo returns a new PunchRepo bound to the given database.
func NewPunchRepo(db *sql.DB) *PunchRepo { return &PunchRepo{db: db} }

// PunchFilter narrows a record listing.  Empty fields do not filter.
// Start and End are inclusive YYYY-MM-DD dates.
type PunchFilter struct {
	CompanyID    *uint64
	EmployeeCode string
	Start        string
	End          string
}

const punchSelect = `SELECT p.id, p.employee_code, p.employee_name, p.punch_date, p.punch_time,
		p.event, p.sequence_index, p.deviation_min, p.note, COALESCE(c.name, '')
	FROM punches p
	JOIN employees e ON e.code = p.employee_code
	LEFT JOIN companies c ON c.id = e.company_id`

// Append inserts a new punch.  A second punch for the same employee, date
// and sequence position fails with ErrDuplicate.
func (r *PunchRepo) Append(ctx context.Context, ev model.PunchEvent) error {
	const q = `INSERT INTO punches
		(id, employee_code, employee_name, punch_date, punch_time, event, sequence_index, deviation_min, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		ev.ID, ev.EmployeeCode, ev.EmployeeName, ev.Date, ev.Time,
		string(ev.Kind), ev.Sequence, ev.Deviation, ev.Note)
	if err != nil && isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// CountForDay returns how many punches the employee has on date.
func (r *PunchRepo) CountForDay(ctx context.Context, employeeCode, date string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM punches WHERE employee_code = ? AND punch_date = ?",
		employeeCode, date).Scan(&n)
	return n, err
}

// Get fetches a punch by ID or returns ErrNotFound.
func (r *PunchRepo) Get(ctx context.Context, id string) (model.PunchEvent, error) {
	row := r.db.QueryRowContext(ctx, punchSelect+" WHERE p.id = ?", id)
	ev, err := scanPunch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PunchEvent{}, ErrNotFound
	}
	return ev, err
}

// Update applies the non-nil fields of upd in a single statement.
func (r *PunchRepo) Update(ctx context.Context, id string, upd model.PunchUpdate) error {
	sets := []string{}
	args := []any{}
	if upd.Time != nil {
		sets = append(sets, "punch_time = ?")
		args = append(args, *upd.Time)
	}
	if upd.Deviation != nil {
		sets = append(sets, "deviation_min = ?")
		args = append(args, *upd.Deviation)
	}
	if upd.Note != nil {
		sets = append(sets, "note = ?")
		args = append(args, *upd.Note)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.db.ExecContext(ctx, "UPDATE punches SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	return err
}

// ListAll returns every punch.
func (r *PunchRepo) ListAll(ctx context.Context) ([]model.PunchEvent, error) {
	return r.List(ctx, PunchFilter{})
}

// ListByEmployee returns the punches of one employee.
func (r *PunchRepo) ListByEmployee(ctx context.Context, code string) ([]model.PunchEvent, error) {
	return r.List(ctx, PunchFilter{EmployeeCode: code})
}

// ListByCompanyAndDateRange returns punches between start and end
// (inclusive), restricted to one company when companyID is set.
func (r *PunchRepo) ListByCompanyAndDateRange(ctx context.Context, companyID *uint64, start, end string) ([]model.PunchEvent, error) {
	return r.List(ctx, PunchFilter{CompanyID: companyID, Start: start, End: end})
}

// List returns the punches matching f ordered by date, time and sequence.
func (r *PunchRepo) List(ctx context.Context, f PunchFilter) ([]model.PunchEvent, error) {
	where := []string{}
	args := []any{}
	if f.CompanyID != nil {
		where = append(where, "e.company_id = ?")
		args = append(args, *f.CompanyID)
	}
	if f.EmployeeCode != "" {
		where = append(where, "p.employee_code = ?")
		args = append(args, f.EmployeeCode)
	}
	if f.Start != "" {
		where = append(where, "p.punch_date >= ?")
		args = append(args, f.Start)
	}
	if f.End != "" {
		where = append(where, "p.punch_date <= ?")
		args = append(args, f.End)
	}

	q := punchSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY p.punch_date, p.punch_time, p.sequence_index"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.PunchEvent{}
	for rows.Next() {
		ev, err := scanPunch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPunch(s scanner) (model.PunchEvent, error) {
	var (
		ev   model.PunchEvent
		kind string
		note sql.NullString
	)
	err := s.Scan(&ev.ID, &ev.EmployeeCode, &ev.EmployeeName, &ev.Date, &ev.Time,
		&kind, &ev.Sequence, &ev.Deviation, &note, &ev.CompanyName)
	if err != nil {
		return model.PunchEvent{}, err
	}
	ev.Kind = model.NormalizeKind(kind)
	ev.Note = note.String
	return ev, nil
}
