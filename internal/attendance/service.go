package attendance

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/timeclock/internal/model"
	"github.com/iliyamo/timeclock/internal/repository"
)

// idLayout is the timestamp part of a punch ID.
const idLayout = "2006-01-02T15:04:05.999999-07:00"

// RecordStore is the persistence the punch workflow needs.
type RecordStore interface {
	CountForDay(ctx context.Context, employeeCode, date string) (int, error)
	Append(ctx context.Context, ev model.PunchEvent) error
	Get(ctx context.Context, id string) (model.PunchEvent, error)
	Update(ctx context.Context, id string, upd model.PunchUpdate) error
}

// EventPublisher is notified after a punch is stored.
type EventPublisher interface {
	PunchRecorded(ctx context.Context, ev model.PunchEvent) error
}

// PunchService runs the punch and edit workflows.  Each call is one short
// read-modify-write against the store.
type PunchService struct {
	Eval   Evaluator
	Store  RecordStore
	Events EventPublisher   // optional
	Now    func() time.Time // defaults to time.Now
}

// NewPunchService wires a PunchService.  events may be nil.
func NewPunchService(eval Evaluator, store RecordStore, events EventPublisher) *PunchService {
	return &PunchService{Eval: eval, Store: store, Events: events, Now: time.Now}
}

func (s *PunchService) now() time.Time {
	if s.Now == nil {
		return time.Now().In(s.Eval.Location)
	}
	return s.Now().In(s.Eval.Location)
}

// Today returns the current local date.
func (s *PunchService) Today() string { return s.now().Format(model.DateLayout) }

// NextEvent returns the event the employee is expected to punch next
// today, or ErrDayComplete.
func (s *PunchService) NextEvent(ctx context.Context, employeeCode string) (model.EventKind, error) {
	count, err := s.Store.CountForDay(ctx, employeeCode, s.Today())
	if err != nil {
		return "", storeErr("count punches", err)
	}
	return s.Eval.NextEvent(count)
}

// RecordPunch appends the employee's next punch for today.  When the day is
// already complete no record is written and a warning outcome is returned.
func (s *PunchService) RecordPunch(ctx context.Context, employeeCode, employeeName string) (*model.PunchEvent, Outcome, error) {
	now := s.now()
	date := now.Format(model.DateLayout)

	count, err := s.Store.CountForDay(ctx, employeeCode, date)
	if err != nil {
		return nil, Outcome{}, storeErr("count punches", err)
	}
	kind, err := s.Eval.NextEvent(count)
	if errors.Is(err, ErrDayComplete) {
		return nil, warning("Your working day has already been fully recorded."), nil
	}
	if err != nil {
		return nil, Outcome{}, err
	}

	raw, final, err := s.Eval.Evaluate(kind, now)
	if err != nil {
		return nil, Outcome{}, err
	}

	ev := model.PunchEvent{
		ID:           employeeCode + "-" + now.Format(idLayout),
		EmployeeCode: employeeCode,
		EmployeeName: employeeName,
		Date:         date,
		Time:         now.Format(model.TimeLayout),
		Kind:         kind,
		Sequence:     count,
		Deviation:    final,
	}
	if err := s.Store.Append(ctx, ev); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, warning("This punch was already recorded."), nil
		}
		return nil, Outcome{}, storeErr("append punch", err)
	}

	if s.Events != nil {
		if err := s.Events.PunchRecorded(ctx, ev); err != nil {
			log.Printf("punch: publish %s failed: %v", ev.ID, err)
		}
	}
	return &ev, success("%s", punchMessage(string(kind), employeeName, ev.Time, raw, final)), nil
}

// EditRecord changes the time and/or note of a stored punch.  Only fields
// that differ from the stored values are written.  A time change
// recomputes the deviation; an unparseable time aborts the whole edit.
func (s *PunchService) EditRecord(ctx context.Context, id string, newTime, newNote *string) (Outcome, error) {
	cur, err := s.Store.Get(ctx, id)
	if err != nil {
		return Outcome{}, storeErr("load punch", err)
	}

	var upd model.PunchUpdate
	if newTime != nil && strings.TrimSpace(*newTime) != cur.Time {
		clock, err := ParseTimeOfDay(*newTime)
		if err != nil {
			return Outcome{}, err
		}
		if clock != cur.Time {
			dev, err := s.Eval.RecomputeDeviation(cur.Date, cur.Kind, clock)
			if err != nil {
				return Outcome{}, err
			}
			upd.Time = &clock
			upd.Deviation = &dev
		}
	}
	if newNote != nil {
		note := strings.TrimSpace(*newNote)
		if note != cur.Note {
			upd.Note = &note
		}
	}
	if upd.Time == nil && upd.Note == nil {
		return Outcome{Message: "No changes to save.", Severity: SeverityInfo}, nil
	}
	if err := s.Store.Update(ctx, id, upd); err != nil {
		return Outcome{}, storeErr("update punch", err)
	}
	return success("Record updated successfully."), nil
}
