package main

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/dentalrecon/internal/platform/db"
	"github.com/ehr/dentalrecon/internal/platform/middleware"
	"github.com/ehr/dentalrecon/internal/platform/reporting"
)

func newServer(logger zerolog.Logger, dbase *database, reports *reporting.Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())

	e.GET("/health", db.HealthHandler(dbase.pinger, dbase.stats))

	apiV1 := e.Group("/api/v1", middleware.RequestTimeout(reportTimeout))
	reports.RegisterRoutes(apiV1)
	return e
}
