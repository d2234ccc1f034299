package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timeclock/internal/attendance"
	"github.com/iliyamo/timeclock/internal/session"
	"github.com/iliyamo/timeclock/internal/utils"
)

// JWTAuth validates a Bearer access token and attaches the resulting
// session to the request.  Protected handlers read it with session.From.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return unauthorized(c, "Missing bearer token.")
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return unauthorized(c, "Invalid or expired token.")
			}
			s, err := session.FromClaims(claims)
			if err != nil {
				return unauthorized(c, "Invalid token claims.")
			}
			session.Set(c, s)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, attendance.Outcome{Message: msg, Severity: attendance.SeverityError})
}
