package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timeclock/internal/attendance"
	"github.com/iliyamo/timeclock/internal/repository"
)

// outcome writes an Outcome body with the given status.
func outcome(c echo.Context, status int, msg string, sev attendance.Severity) error {
	return c.JSON(status, attendance.Outcome{Message: msg, Severity: sev})
}

func badRequest(c echo.Context, msg string) error {
	return outcome(c, http.StatusBadRequest, msg, attendance.SeverityWarning)
}

// fail maps a domain error to its HTTP status and Outcome.  Store failures
// carry the underlying driver message.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return outcome(c, http.StatusConflict, err.Error(), attendance.SeverityWarning)
	case attendance.IsValidation(err):
		return outcome(c, http.StatusBadRequest, err.Error(), attendance.SeverityWarning)
	case errors.Is(err, attendance.ErrInvalidFormat):
		return outcome(c, http.StatusBadRequest, err.Error(), attendance.SeverityError)
	case errors.Is(err, attendance.ErrAuth):
		return outcome(c, http.StatusUnauthorized, err.Error(), attendance.SeverityError)
	case errors.Is(err, repository.ErrNotFound):
		return outcome(c, http.StatusNotFound, "Record not found.", attendance.SeverityError)
	case errors.Is(err, attendance.ErrDayComplete):
		return outcome(c, http.StatusOK, "Your working day has already been fully recorded.", attendance.SeverityWarning)
	}
	var se *attendance.StoreError
	if errors.As(err, &se) {
		log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
		return outcome(c, http.StatusInternalServerError, "Database error: "+se.Err.Error(), attendance.SeverityError)
	}
	log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
	return outcome(c, http.StatusInternalServerError, "Internal error.", attendance.SeverityError)
}

// parseUint reads an optional positive integer query or form value.
func parseUint(s string) (*uint64, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return nil, &attendance.ValidationError{Field: "company_id", Message: "must be a positive integer"}
	}
	return &n, nil
}
