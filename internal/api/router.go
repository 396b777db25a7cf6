package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/minisocial/socialnet/internal/api/docs"
	"github.com/minisocial/socialnet/internal/api/handler"
	"github.com/minisocial/socialnet/internal/core/ports"
)

// RouterDeps holds what the ops listener reports on. Cache may be nil when
// the feed cache is disabled.
type RouterDeps struct {
	Storage    ports.Pinger
	Cache      ports.Pinger
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds the operator-facing Echo instance: health checks, the
// Prometheus scrape endpoint and the Swagger UI describing them.
//
//	@title		socialnet ops API
//	@version	1.0
//	@BasePath	/
func NewRouter(deps RouterDeps) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "ops",
		Registerer: deps.Registerer,
	}))

	// --- Health checks ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Storage, deps.Cache)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: deps.Gatherer,
	}))

	// --- Docs ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
