package handler

import (
	"net/http"

	"github.com/OumaCavin/DataLinkCRM/pkg/cache"
	"github.com/OumaCavin/DataLinkCRM/pkg/database"

	"github.com/labstack/echo/v4"
)

// HealthCheck handles the basic health check endpoint
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "datalink-crm",
	})
}

// DetailedHealthCheck verifies database and cache connectivity
func DetailedHealthCheck(c echo.Context) error {
	status := echo.Map{
		"status":   "healthy",
		"database": "ok",
		"cache":    "ok",
	}
	code := http.StatusOK

	if err := database.Ping(); err != nil {
		status["status"] = "unhealthy"
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	if err := cache.Ping(c.Request().Context()); err != nil {
		// The service runs without the cache; report but stay healthy
		status["cache"] = err.Error()
	}

	return c.JSON(code, status)
}
