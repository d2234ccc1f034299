package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timeclock/internal/attendance"
	"github.com/iliyamo/timeclock/internal/model"
	"github.com/iliyamo/timeclock/internal/repository"
	"github.com/iliyamo/timeclock/internal/session"
)

// PunchHandler serves the employee punch screen.
type PunchHandler struct {
	Punches *attendance.PunchService
	Records *repository.PunchRepo
}

func NewPunchHandler(p *attendance.PunchService, r *repository.PunchRepo) *PunchHandler {
	return &PunchHandler{Punches: p, Records: r}
}

type nextResp struct {
	Date        string `json:"date"`
	Next        string `json:"next,omitempty"`
	DayComplete bool   `json:"day_complete"`
}

type punchResp struct {
	attendance.Outcome
	Record *model.PunchEvent `json:"record"`
}

type recordItem struct {
	model.PunchEvent
	Status string `json:"status"`
}

// Next tells the caller which event the next punch records.
func (h *PunchHandler) Next(c echo.Context) error {
	s, err := session.From(c)
	if err != nil {
		return outcome(c, http.StatusUnauthorized, "Not logged in.", attendance.SeverityError)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp := nextResp{Date: h.Punches.Today()}
	kind, err := h.Punches.NextEvent(ctx, s.EmployeeCode)
	switch {
	case errors.Is(err, attendance.ErrDayComplete):
		resp.DayComplete = true
	case err != nil:
		return fail(c, err)
	default:
		resp.Next = string(kind)
	}
	return c.JSON(http.StatusOK, resp)
}

// Record registers the caller's next punch for today.
func (h *PunchHandler) Record(c echo.Context) error {
	s, err := session.From(c)
	if err != nil {
		return outcome(c, http.StatusUnauthorized, "Not logged in.", attendance.SeverityError)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rec, out, err := h.Punches.RecordPunch(ctx, s.EmployeeCode, s.Name)
	if err != nil {
		return fail(c, err)
	}
	status := http.StatusOK
	if rec != nil {
		status = http.StatusCreated
	}
	return c.JSON(status, punchResp{Outcome: out, Record: rec})
}

// Mine lists the caller's punches, newest first, with a status label.
func (h *PunchHandler) Mine(c echo.Context) error {
	s, err := session.From(c)
	if err != nil {
		return outcome(c, http.StatusUnauthorized, "Not logged in.", attendance.SeverityError)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	recs, err := h.Records.ListByEmployee(ctx, s.EmployeeCode)
	if err != nil {
		return fail(c, &attendance.StoreError{Op: "list punches", Err: err})
	}
	attendance.SortRecords(recs, true)
	out := make([]recordItem, 0, len(recs))
	for _, r := range recs {
		out = append(out, recordItem{PunchEvent: r, Status: attendance.DeviationLabel(r.Deviation)})
	}
	return c.JSON(http.StatusOK, out)
}
