package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/timeclock/internal/config"
	"github.com/iliyamo/timeclock/internal/model"
	"github.com/iliyamo/timeclock/internal/session"
	"github.com/iliyamo/timeclock/internal/utils"
)

const secret = "test-secret"

func newEcho() *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		s, err := session.From(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, s.EmployeeCode)
	}, JWTAuth(secret))
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, JWTAuth(secret), RequireRole(model.RoleAdmin))
	return e
}

func bearer(t *testing.T, emp model.Employee) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, emp, 5)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func do(e *echo.Echo, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := newEcho()

	rec := do(e, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, "/me", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, "/me", bearer(t, model.Employee{Code: "1001", Role: model.RoleEmployee}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1001", rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	e := newEcho()

	rec := do(e, "/admin", bearer(t, model.Employee{Code: "1001", Role: model.RoleEmployee}))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"severity":"error"`)

	rec = do(e, "/admin", bearer(t, model.Employee{Code: "admin", Role: model.RoleAdmin}))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`[{"id":1}]`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `[{"id":1}]`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
}

func TestWithoutRedisIsPassThrough(t *testing.T) {
	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, secret))
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "x") },
		NewRedisCache(config.CacheConfig{Enabled: true}, nil))

	rec := do(e, "/x", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestRateKeyUsesSession(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/punch", nil), httptest.NewRecorder())
	c.SetPath("/v1/punch")
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}

	assert.Equal(t, "rl:user:anon", buildRateKey(cfg, secret, c))
	session.Set(c, session.Session{EmployeeCode: "1001"})
	assert.Equal(t, "rl:user:1001", buildRateKey(cfg, secret, c))
}

// The limiter is installed with e.Use, ahead of the group-level JWTAuth.
func TestRateKeyBeforeJWTAuth(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	var keys []string

	e := echo.New()
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			keys = append(keys, buildRateKey(cfg, secret, c))
			return next(c)
		}
	})
	g := e.Group("/v1", JWTAuth(secret))
	g.GET("/punch/next", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, do(e, "/v1/punch/next", bearer(t, model.Employee{Code: "1001", Role: model.RoleEmployee})).Code)
	assert.Equal(t, http.StatusNoContent, do(e, "/v1/punch/next", bearer(t, model.Employee{Code: "2002", Role: model.RoleEmployee})).Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, "/v1/punch/next", "Bearer forged").Code)
	assert.Equal(t, http.StatusNoContent, do(e, "/healthz", "").Code)

	assert.Equal(t, []string{"rl:user:1001", "rl:user:2002", "rl:user:anon", "rl:user:anon"}, keys)
}
