// Package session carries the authenticated employee through a request.
// Handlers never read JWT claims directly; they ask for the Session.
package session

import (
	"errors"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timeclock/internal/model"
)

const contextKey = "session"

// ErrNoSession is returned by From when no middleware populated the request.
var ErrNoSession = errors.New("no session")

// Session describes who is logged in for the current request.
type Session struct {
	EmployeeCode string
	Name         string
	Role         string
	CompanyID    *uint64
}

func (s Session) IsAdmin() bool { return s.Role == model.RoleAdmin }

// FromClaims builds a session out of access token claims.
func FromClaims(claims jwt.MapClaims) (Session, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Session{}, errors.New("token has no subject")
	}
	s := Session{EmployeeCode: sub}
	s.Name, _ = claims["name"].(string)
	s.Role, _ = claims["role"].(string)
	if s.Role == "" {
		s.Role = model.RoleEmployee
	}
	switch v := claims["company_id"].(type) {
	case float64:
		id := uint64(v)
		s.CompanyID = &id
	case string:
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			s.CompanyID = &id
		}
	}
	return s, nil
}

// FromEmployee builds a session for a freshly authenticated employee.
func FromEmployee(e model.Employee) Session {
	return Session{EmployeeCode: e.Code, Name: e.Name, Role: e.Role, CompanyID: e.CompanyID}
}

// Set stores s on the request context.
func Set(c echo.Context, s Session) { c.Set(contextKey, s) }

// From returns the session stored by Set.
func From(c echo.Context) (Session, error) {
	s, ok := c.Get(contextKey).(Session)
	if !ok {
		return Session{}, ErrNoSession
	}
	return s, nil
}
