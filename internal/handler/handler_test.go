package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/timeclock/internal/attendance"
	"github.com/iliyamo/timeclock/internal/config"
	"github.com/iliyamo/timeclock/internal/database"
	"github.com/iliyamo/timeclock/internal/directory"
	"github.com/iliyamo/timeclock/internal/export"
	"github.com/iliyamo/timeclock/internal/handler"
	"github.com/iliyamo/timeclock/internal/importer"
	"github.com/iliyamo/timeclock/internal/middleware"
	"github.com/iliyamo/timeclock/internal/repository"
	"github.com/iliyamo/timeclock/internal/router"
	"github.com/iliyamo/timeclock/internal/utils"
)

const secret = "handler-test"

type testServer struct {
	e     *echo.Echo
	clock *time.Time
	loc   *time.Location
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(database.DriverSQLite, database.SQLiteDSN(filepath.Join(t.TempDir(), "app.db")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db, database.DriverSQLite))
	adminHash, err := utils.HashPassword("admin123", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, database.Seed(ctx, db, adminHash))

	dir, err := directory.New(repository.NewEmployeeRepo(db), repository.NewCompanyRepo(db), 16)
	require.NoError(t, err)

	loc, err := time.LoadLocation("America/Fortaleza")
	require.NoError(t, err)
	clock := time.Date(2024, 3, 5, 8, 12, 0, 0, loc)

	records := repository.NewPunchRepo(db)
	punches := attendance.NewPunchService(attendance.NewEvaluator(nil, 5, loc), records, nil)
	punches.Now = func() time.Time { return clock }

	cfg := config.Config{JWTSecret: secret, AccessTTLMin: 5, RefreshTTLDays: 1, BcryptCost: bcrypt.MinCost}
	hash := func(p string) (string, error) { return utils.HashPassword(p, bcrypt.MinCost) }

	e := echo.New()
	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, attendance.NewAuthenticator(dir, bcrypt.MinCost), dir, repository.NewTokenRepo(db)), secret)
	router.RegisterEmployee(e, handler.NewPunchHandler(punches, records), secret)
	router.RegisterAdmin(e,
		handler.NewAdminHandler(punches, records, dir, attendance.NewEmployeeService(dir, bcrypt.MinCost), importer.New(dir, hash)),
		secret,
		middleware.NewRedisCache(config.CacheConfig{}, nil),
	)
	return &testServer{e: e, clock: &clock, loc: loc}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type loginResp struct {
	Access struct {
		Token string `json:"token"`
	} `json:"access"`
	Refresh struct {
		Token string `json:"token"`
	} `json:"refresh"`
}

func (s *testServer) login(t *testing.T, code, password string) loginResp {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{"code": code, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[loginResp](t, rec)
}

func TestLoginAndRefresh(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{"code": "admin", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tokens := s.login(t, "admin", "admin123")
	rec = s.do(t, http.MethodGet, "/v1/me", tokens.Access.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)

	rec = s.do(t, http.MethodPost, "/v1/auth/refresh", "", map[string]string{"refresh_token": tokens.Refresh.Token})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/auth/refresh", "", map[string]string{"refresh_token": tokens.Refresh.Token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "refresh tokens rotate")

	rec = s.do(t, http.MethodPost, "/v1/auth/logout", tokens.Access.Token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPunchAndAdminFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "admin123").Access.Token

	rec := s.do(t, http.MethodGet, "/v1/companies", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), len(repository.DefaultCompanies))

	newEmp := map[string]any{"code": "1001", "name": "Maria", "password": "pw", "company_id": 1}
	rec = s.do(t, http.MethodPost, "/v1/employees", admin, newEmp)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/v1/employees", admin, newEmp)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = s.do(t, http.MethodPost, "/v1/employees", admin, map[string]any{"code": "1002", "company_id": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	emp := s.login(t, "1001", "pw").Access.Token
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/v1/records", emp, nil).Code)

	rec = s.do(t, http.MethodGet, "/v1/punch/next", emp, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Entrada", decode[map[string]any](t, rec)["next"])

	rec = s.do(t, http.MethodPost, "/v1/punch", emp, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[map[string]any](t, rec)
	assert.Equal(t, "success", first["severity"])
	record := first["record"].(map[string]any)
	assert.Equal(t, float64(7), record["deviation_min"])

	*s.clock = time.Date(2024, 3, 5, 18, 2, 0, 0, s.loc)
	rec = s.do(t, http.MethodPost, "/v1/punch", emp, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/punch", emp, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	done := decode[map[string]any](t, rec)
	assert.Equal(t, "warning", done["severity"])
	assert.Nil(t, done["record"])

	rec = s.do(t, http.MethodGet, "/v1/punch/next", emp, nil)
	assert.Equal(t, true, decode[map[string]any](t, rec)["day_complete"])

	rec = s.do(t, http.MethodGet, "/v1/punch/records", emp, nil)
	mine := decode[[]map[string]any](t, rec)
	require.Len(t, mine, 2)
	assert.Equal(t, "Saída", mine[0]["event"], "newest first")
	assert.Equal(t, "On time", mine[0]["status"])
	assert.Equal(t, "+7 min (late)", mine[1]["status"])

	rec = s.do(t, http.MethodGet, "/v1/records?start=2024-03-01&end=2024-03-31&company_id=1", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	recs := decode[[]map[string]any](t, rec)
	require.Len(t, recs, 2)
	entradaID := recs[1]["id"].(string)

	rec = s.do(t, http.MethodPatch, "/v1/records/"+entradaID, admin, map[string]string{"time": "8h"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPatch, "/v1/records/"+entradaID, admin, map[string]string{"time": "08:30:00", "note": "bus"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPatch, "/v1/records/unknown", admin, map[string]string{"note": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/reports/daily?start=2024-03-01&end=2024-03-31", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[[]map[string]any](t, rec)
	require.Len(t, report, 1)
	assert.Equal(t, "05/03/2024", report[0]["date"])
	assert.Equal(t, "08:30:00", report[0]["entrada"])
	assert.Equal(t, "09:32", report[0]["worked_hours"])
	assert.Equal(t, "bus", report[0]["notes"])

	rec = s.do(t, http.MethodGet, "/v1/reports/daily?start=2024-03-31&end=2024-03-01", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/reports/export?start=2024-03-01&end=2024-03-31", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "timesheet_2024-03-01_2024-03-31.xlsx")
}

func TestImportEmployees(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "admin123").Access.Token

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("company_id", "2"))
	fw, err := mw.CreateFormFile("file", "staff.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("MATRICULA;COLABORADOR;SENHA\nadmin;Admin;x\n501;Caio;pw\n502;;pw\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/employees/import", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+admin)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rep := decode[importer.Report](t, rec)
	assert.Equal(t, 1, rep.Created)
	assert.Equal(t, 1, rep.Skipped)
	assert.Equal(t, []string{"Line 4: incomplete data."}, rep.Errors)

	s.login(t, "501", "pw")

	rec = s.do(t, http.MethodGet, "/v1/employees", admin, nil)
	emps := decode[[]map[string]any](t, rec)
	require.Len(t, emps, 1)
	assert.Equal(t, "Caio", emps[0]["name"])
	assert.NotContains(t, rec.Body.String(), "password")
}
