package attendance

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/timeclock/internal/model"
	"github.com/iliyamo/timeclock/internal/repository"
)

type memStore struct {
	rows      []model.PunchEvent
	updates   []model.PunchUpdate
	appendErr error
}

func (m *memStore) CountForDay(_ context.Context, code, date string) (int, error) {
	n := 0
	for _, r := range m.rows {
		if r.EmployeeCode == code && r.Date == date {
			n++
		}
	}
	return n, nil
}

func (m *memStore) Append(_ context.Context, ev model.PunchEvent) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.rows = append(m.rows, ev)
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (model.PunchEvent, error) {
	for _, r := range m.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return model.PunchEvent{}, repository.ErrNotFound
}

func (m *memStore) Update(_ context.Context, id string, upd model.PunchUpdate) error {
	m.updates = append(m.updates, upd)
	for i := range m.rows {
		if m.rows[i].ID != id {
			continue
		}
		if upd.Time != nil {
			m.rows[i].Time = *upd.Time
		}
		if upd.Deviation != nil {
			m.rows[i].Deviation = *upd.Deviation
		}
		if upd.Note != nil {
			m.rows[i].Note = *upd.Note
		}
	}
	return nil
}

type recorder struct {
	events []model.PunchEvent
	err    error
}

func (r *recorder) PunchRecorded(_ context.Context, ev model.PunchEvent) error {
	r.events = append(r.events, ev)
	return r.err
}

func newService(t *testing.T, clock *time.Time) (*PunchService, *memStore, *recorder) {
	t.Helper()
	store := &memStore{}
	rec := &recorder{}
	s := NewPunchService(NewEvaluator(nil, DefaultTolerance, fortaleza(t)), store, rec)
	s.Now = func() time.Time { return *clock }
	return s, store, rec
}

func TestRecordPunchFullDay(t *testing.T) {
	loc := fortaleza(t)
	now := time.Date(2024, 3, 5, 8, 12, 0, 0, loc)
	s, store, events := newService(t, &now)
	ctx := context.Background()

	ev, out, err := s.RecordPunch(ctx, "1001", "Maria")
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, model.KindEntrada, ev.Kind)
	assert.Equal(t, 0, ev.Sequence)
	assert.Equal(t, 7, ev.Deviation)
	assert.Equal(t, "2024-03-05", ev.Date)
	assert.Equal(t, "08:12:00", ev.Time)
	assert.True(t, strings.HasPrefix(ev.ID, "1001-2024-03-05T08:12:00"))
	assert.Equal(t, SeveritySuccess, out.Severity)
	assert.Contains(t, out.Message, "7 min late")

	now = time.Date(2024, 3, 5, 17, 57, 0, 0, loc)
	ev, out, err = s.RecordPunch(ctx, "1001", "Maria")
	require.NoError(t, err)
	assert.Equal(t, model.KindSaida, ev.Kind)
	assert.Equal(t, 1, ev.Sequence)
	assert.Equal(t, 0, ev.Deviation)
	assert.Contains(t, out.Message, "within tolerance")

	now = time.Date(2024, 3, 5, 18, 30, 0, 0, loc)
	ev, out, err = s.RecordPunch(ctx, "1001", "Maria")
	require.NoError(t, err)
	assert.Nil(t, ev)
	assert.Equal(t, SeverityWarning, out.Severity)
	assert.Len(t, store.rows, 2)
	assert.Len(t, events.events, 2)

	next, err := s.NextEvent(ctx, "1001")
	assert.ErrorIs(t, err, ErrDayComplete)
	assert.Empty(t, next)
}

func TestRecordPunchNewDayStartsOver(t *testing.T) {
	loc := fortaleza(t)
	now := time.Date(2024, 3, 5, 7, 40, 0, 0, loc)
	s, _, _ := newService(t, &now)
	ctx := context.Background()

	_, _, err := s.RecordPunch(ctx, "1001", "Maria")
	require.NoError(t, err)
	_, _, err = s.RecordPunch(ctx, "1001", "Maria")
	require.NoError(t, err)

	now = now.Add(24 * time.Hour)
	next, err := s.NextEvent(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, model.KindEntrada, next)

	ev, out, err := s.RecordPunch(ctx, "1001", "Maria")
	require.NoError(t, err)
	assert.Equal(t, -15, ev.Deviation)
	assert.Contains(t, out.Message, "15 min early")
}

func TestRecordPunchDuplicateAndPublishFailure(t *testing.T) {
	now := time.Date(2024, 3, 5, 8, 0, 0, 0, fortaleza(t))
	s, store, events := newService(t, &now)
	ctx := context.Background()

	events.err = errors.New("broker down")
	ev, out, err := s.RecordPunch(ctx, "1", "Ana")
	require.NoError(t, err, "publish failures never fail the punch")
	require.NotNil(t, ev)
	assert.Contains(t, out.Message, "on time")

	store.appendErr = repository.ErrDuplicate
	ev, out, err = s.RecordPunch(ctx, "2", "Bia")
	require.NoError(t, err)
	assert.Nil(t, ev)
	assert.Equal(t, SeverityWarning, out.Severity)

	store.appendErr = errors.New("disk full")
	_, _, err = s.RecordPunch(ctx, "3", "Caio")
	var se *StoreError
	assert.ErrorAs(t, err, &se)
}

func TestEditRecord(t *testing.T) {
	now := time.Date(2024, 3, 5, 8, 0, 0, 0, fortaleza(t))
	s, store, _ := newService(t, &now)
	ctx := context.Background()
	store.rows = []model.PunchEvent{{ID: "r1", EmployeeCode: "1", Date: "2024-03-05", Time: "08:00:00", Kind: model.KindEntrada, Note: "old"}}

	str := func(v string) *string { return &v }

	out, err := s.EditRecord(ctx, "r1", str("08:30:00"), nil)
	require.NoError(t, err)
	assert.Equal(t, SeveritySuccess, out.Severity)
	assert.Equal(t, "08:30:00", store.rows[0].Time)
	assert.Equal(t, 25, store.rows[0].Deviation)
	assert.Equal(t, "old", store.rows[0].Note)

	out, err = s.EditRecord(ctx, "r1", str("08:30:00"), str("doctor"))
	require.NoError(t, err)
	last := store.updates[len(store.updates)-1]
	assert.Nil(t, last.Time, "unchanged time is not rewritten")
	assert.Nil(t, last.Deviation)
	require.NotNil(t, last.Note)
	assert.Equal(t, "doctor", *last.Note)

	out, err = s.EditRecord(ctx, "r1", str("08:30:00"), str("doctor"))
	require.NoError(t, err)
	assert.Equal(t, SeverityInfo, out.Severity)

	before := len(store.updates)
	_, err = s.EditRecord(ctx, "r1", str("8h30"), str("new note"))
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Len(t, store.updates, before, "nothing applied on a bad time")
	assert.Equal(t, "doctor", store.rows[0].Note)

	_, err = s.EditRecord(ctx, "missing", nil, str("x"))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
