package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timeclock/internal/attendance"
	"github.com/iliyamo/timeclock/internal/directory"
	"github.com/iliyamo/timeclock/internal/export"
	"github.com/iliyamo/timeclock/internal/importer"
	"github.com/iliyamo/timeclock/internal/model"
	"github.com/iliyamo/timeclock/internal/repository"
)

// AdminHandler serves the administration screens: records, reports and
// employee management.
type AdminHandler struct {
	Punches   *attendance.PunchService
	Records   *repository.PunchRepo
	Dir       *directory.Directory
	Employees *attendance.EmployeeService
	Importer  *importer.Importer
}

func NewAdminHandler(p *attendance.PunchService, r *repository.PunchRepo, d *directory.Directory, e *attendance.EmployeeService, im *importer.Importer) *AdminHandler {
	if p == nil || r == nil || d == nil || e == nil || im == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Punches: p, Records: r, Dir: d, Employees: e, Importer: im}
}

type editReq struct {
	Time *string `json:"time"`
	Note *string `json:"note"`
}

type createEmployeeReq struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Password  string `json:"password"`
	CompanyID uint64 `json:"company_id"`
}

// Companies lists all companies.
func (h *AdminHandler) Companies(c echo.Context) error {
	cs, err := h.Dir.Companies(c.Request().Context())
	if err != nil {
		return fail(c, &attendance.StoreError{Op: "list companies", Err: err})
	}
	return c.JSON(http.StatusOK, cs)
}

// ListRecords returns the raw punches matching the query filter, newest first.
func (h *AdminHandler) ListRecords(c echo.Context) error {
	recs, err := h.filtered(c)
	if err != nil {
		return fail(c, err)
	}
	attendance.SortRecords(recs, true)
	return c.JSON(http.StatusOK, recs)
}

// EditRecord changes the time and/or note of one punch.
func (h *AdminHandler) EditRecord(c echo.Context) error {
	var req editReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Punches.EditRecord(ctx, c.Param("id"), req.Time, req.Note)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// DailyReport returns the organised report for the query filter.
func (h *AdminHandler) DailyReport(c echo.Context) error {
	recs, err := h.filtered(c)
	if err != nil {
		return fail(c, err)
	}
	rows := attendance.OrganizeRecords(recs)
	attendance.SortSummaries(rows)
	for i := range rows {
		rows[i].Date = attendance.DisplayDate(rows[i].Date)
	}
	return c.JSON(http.StatusOK, rows)
}

// Export streams the report and the raw log as an xlsx workbook.
func (h *AdminHandler) Export(c echo.Context) error {
	f, err := h.filter(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	recs, err := h.Records.List(ctx, f)
	if err != nil {
		return fail(c, &attendance.StoreError{Op: "list punches", Err: err})
	}
	rows := attendance.OrganizeRecords(recs)
	attendance.SortSummaries(rows)
	buf, err := export.Workbook(rows, recs)
	if err != nil {
		return fail(c, err)
	}
	name := fmt.Sprintf("timesheet_%s_%s.xlsx", f.Start, f.End)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}

// CreateEmployee registers one employee.
func (h *AdminHandler) CreateEmployee(c echo.Context) error {
	var req createEmployeeReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.CompanyID != 0 {
		if _, err := h.Dir.Company(ctx, req.CompanyID); err != nil {
			return fail(c, &attendance.ValidationError{Field: "company_id", Message: "unknown company"})
		}
	}
	out, err := h.Employees.Add(ctx, req.Code, req.Name, req.Password, req.CompanyID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// ListEmployees returns every employee account (admins excluded).
func (h *AdminHandler) ListEmployees(c echo.Context) error {
	emps, err := h.Dir.Employees(c.Request().Context(), model.RoleEmployee)
	if err != nil {
		return fail(c, &attendance.StoreError{Op: "list employees", Err: err})
	}
	return c.JSON(http.StatusOK, emps)
}

// ImportEmployees bulk-registers employees from an uploaded CSV file.
func (h *AdminHandler) ImportEmployees(c echo.Context) error {
	cid, err := parseUint(c.FormValue("company_id"))
	if err != nil {
		return fail(c, err)
	}
	if cid == nil {
		return badRequest(c, "company_id is required")
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}
	src, err := fh.Open()
	if err != nil {
		return badRequest(c, "cannot read uploaded file")
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	if _, err := h.Dir.Company(ctx, *cid); err != nil {
		return fail(c, &attendance.ValidationError{Field: "company_id", Message: "unknown company"})
	}
	rep, err := h.Importer.Import(ctx, src, *cid)
	if errors.Is(err, importer.ErrMissingColumns) {
		return badRequest(c, "Critical error: "+err.Error())
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}

// filter reads company_id, start, end and employee from the query.  The
// range defaults to the first day of the current month through today.
func (h *AdminHandler) filter(c echo.Context) (repository.PunchFilter, error) {
	var f repository.PunchFilter
	cid, err := parseUint(c.QueryParam("company_id"))
	if err != nil {
		return f, err
	}
	f.CompanyID = cid
	f.EmployeeCode = strings.TrimSpace(c.QueryParam("employee"))

	today := h.Punches.Today()
	f.Start, f.End = c.QueryParam("start"), c.QueryParam("end")
	if f.Start == "" {
		f.Start = today[:8] + "01"
	}
	if f.End == "" {
		f.End = today
	}
	for field, v := range map[string]string{"start": f.Start, "end": f.End} {
		if _, err := time.Parse(model.DateLayout, v); err != nil {
			return f, &attendance.ValidationError{Field: field, Message: "use YYYY-MM-DD"}
		}
	}
	if f.Start > f.End {
		return f, &attendance.ValidationError{Field: "start", Message: "must not be after end"}
	}
	return f, nil
}

func (h *AdminHandler) filtered(c echo.Context) ([]model.PunchEvent, error) {
	f, err := h.filter(c)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	recs, err := h.Records.List(ctx, f)
	if err != nil {
		return nil, &attendance.StoreError{Op: "list punches", Err: err}
	}
	return recs, nil
}
