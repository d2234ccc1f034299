package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timeclock/internal/attendance"
	"github.com/iliyamo/timeclock/internal/config"
	"github.com/iliyamo/timeclock/internal/model"
	"github.com/iliyamo/timeclock/internal/repository"
	"github.com/iliyamo/timeclock/internal/session"
	"github.com/iliyamo/timeclock/internal/utils"
)

// EmployeeLookup resolves an employee by code.
type EmployeeLookup interface {
	Employee(ctx context.Context, code string) (model.Employee, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg       config.Config
	Auth      *attendance.Authenticator
	Employees EmployeeLookup
	Tokens    *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, auth *attendance.Authenticator, employees EmployeeLookup, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Auth: auth, Employees: employees, Tokens: t}
}

// ----- DTOs -----

type loginReq struct {
	Code     string `json:"code"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type employeePart struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	CompanyID *uint64 `json:"company_id,omitempty"`
}
type authResp struct {
	Employee employeePart `json:"employee"`
	Access   tokenPart    `json:"access"`
	Refresh  tokenPart    `json:"refresh"`
}

// Login verifies a code/password pair and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	emp, err := h.Auth.Verify(ctx, req.Code, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return h.issue(ctx, c, emp)
}

// Refresh validates a refresh token by hash, revokes it and issues a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return badRequest(c, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	code, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return outcome(c, http.StatusUnauthorized, "Invalid or expired refresh token.", attendance.SeverityError)
	}
	_ = h.Tokens.RevokeByHash(ctx, hash)

	emp, err := h.Employees.Employee(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return outcome(c, http.StatusUnauthorized, "Invalid or expired refresh token.", attendance.SeverityError)
	}
	if err != nil {
		return fail(c, &attendance.StoreError{Op: "load employee", Err: err})
	}
	return h.issue(ctx, c, emp)
}

// Logout revokes the refresh token in the body, or every token of the
// session employee when none is given.
func (h *AuthHandler) Logout(c echo.Context) error {
	s, err := session.From(c)
	if err != nil {
		return outcome(c, http.StatusUnauthorized, "Not logged in.", attendance.SeverityError)
	}
	var req refreshReq
	_ = c.Bind(&req)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if raw := strings.TrimSpace(req.RefreshToken); raw != "" {
		err = h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(raw))
	} else {
		err = h.Tokens.RevokeAllForEmployee(ctx, s.EmployeeCode)
	}
	if err != nil {
		return fail(c, &attendance.StoreError{Op: "revoke tokens", Err: err})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the session of the caller.
func (h *AuthHandler) Me(c echo.Context) error {
	s, err := session.From(c)
	if err != nil {
		return outcome(c, http.StatusUnauthorized, "Not logged in.", attendance.SeverityError)
	}
	return c.JSON(http.StatusOK, employeePart{Code: s.EmployeeCode, Name: s.Name, Role: s.Role, CompanyID: s.CompanyID})
}

func (h *AuthHandler) issue(ctx context.Context, c echo.Context, emp model.Employee) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, emp, h.Cfg.AccessTTLMin)
	if err != nil {
		return fail(c, err)
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Tokens.StoreRefresh(ctx, emp.Code, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return fail(c, &attendance.StoreError{Op: "save refresh", Err: err})
	}
	return c.JSON(http.StatusOK, authResp{
		Employee: employeePart{Code: emp.Code, Name: emp.Name, Role: emp.Role, CompanyID: emp.CompanyID},
		Access:   tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh:  tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}
