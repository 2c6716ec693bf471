package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/taskflow/auth-service/docs"
	"github.com/taskflow/auth-service/internal/api/handler"
	"github.com/taskflow/auth-service/internal/api/metrics"
	"github.com/taskflow/auth-service/internal/api/middleware"
	"github.com/taskflow/auth-service/internal/core/ports"
	"github.com/taskflow/auth-service/internal/infrastructure/http/handlers"
)

// RouterDeps are the collaborators the HTTP layer needs.
type RouterDeps struct {
	AuthService ports.AuthService
	Verifier    middleware.TokenVerifier
	// Health maps dependency names to readiness probes.
	Health map[string]handlers.Pinger
	// Registry receives HTTP and auth metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if err := metrics.Register(reg); err != nil {
		return nil, err
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLog(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	authHandler := handler.NewAuthHandler(deps.AuthService)
	profileHandler := handler.NewProfileHandler(deps.AuthService)
	adminHandler := handler.NewAdminHandler(deps.AuthService)
	requireAuth := middleware.Auth(deps.Verifier)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout, requireAuth)
	auth.GET("/profile", profileHandler.Get, requireAuth)
	auth.PUT("/profile", profileHandler.Put, requireAuth)
	auth.PATCH("/profile", profileHandler.Patch, requireAuth)

	// --- Staff-only account management ---
	admin := e.Group("/api/admin", requireAuth, middleware.RequireStaff(deps.AuthService))
	admin.POST("/accounts", adminHandler.Provision)
	admin.PATCH("/accounts/:id", adminHandler.SetActive)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Health)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operability ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
