package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timeclock/internal/handler"
	"github.com/iliyamo/timeclock/internal/middleware"
	"github.com/iliyamo/timeclock/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers login/refresh under /v1/auth and the session
// endpoints that need a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.POST("/auth/logout", a.Logout)
	auth.GET("/me", a.Me)
}

// RegisterEmployee registers the punch endpoints.  Any logged in account
// may punch, administrators included.
func RegisterEmployee(e *echo.Echo, p *handler.PunchHandler, jwtSecret string) {
	g := e.Group(
		"/v1/punch",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleEmployee, model.RoleAdmin),
	)
	g.GET("/next", p.Next)
	g.POST("", p.Record)
	g.GET("/records", p.Mine)
}

// RegisterAdmin registers administration endpoints under /v1.  companies
// is the response cache applied to the company list.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string, companies echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/companies", h.Companies, companies)

	// ---- Records ----
	g.GET("/records", h.ListRecords)
	g.PATCH("/records/:id", h.EditRecord)

	// ---- Reports ----
	g.GET("/reports/daily", h.DailyReport)
	g.GET("/reports/export", h.Export)

	// ---- Employees ----
	g.GET("/employees", h.ListEmployees)
	g.POST("/employees", h.CreateEmployee)
	g.POST("/employees/import", h.ImportEmployees)
}
