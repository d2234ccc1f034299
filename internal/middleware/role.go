package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timeclock/internal/attendance"
	"github.com/iliyamo/timeclock/internal/session"
)

// RequireRole aborts with 403 unless the session role is one of roles.
// It must run after JWTAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, err := session.From(c)
			if err != nil || !allowed[s.Role] {
				return c.JSON(http.StatusForbidden, attendance.Outcome{
					Message:  "You do not have permission to access this page.",
					Severity: attendance.SeverityError,
				})
			}
			return next(c)
		}
	}
}
