package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/timeclock/internal/model"
)

func TestFromClaims(t *testing.T) {
	s, err := FromClaims(jwt.MapClaims{
		"sub":        "1001",
		"name":       "Maria",
		"role":       "employee",
		"company_id": float64(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "1001", s.EmployeeCode)
	assert.Equal(t, "Maria", s.Name)
	assert.False(t, s.IsAdmin())
	require.NotNil(t, s.CompanyID)
	assert.Equal(t, uint64(3), *s.CompanyID)
}

func TestFromClaimsDefaultsRoleAndCompany(t *testing.T) {
	s, err := FromClaims(jwt.MapClaims{"sub": "admin", "role": model.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, s.IsAdmin())
	assert.Nil(t, s.CompanyID)

	s, err = FromClaims(jwt.MapClaims{"sub": "7"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleEmployee, s.Role)
}

func TestFromClaimsRequiresSubject(t *testing.T) {
	_, err := FromClaims(jwt.MapClaims{"role": "admin"})
	assert.Error(t, err)
}

func TestSetAndFrom(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := From(c)
	assert.ErrorIs(t, err, ErrNoSession)

	Set(c, Session{EmployeeCode: "42", Role: model.RoleEmployee})
	got, err := From(c)
	require.NoError(t, err)
	assert.Equal(t, "42", got.EmployeeCode)
}
