package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterHealthRoute exposes a liveness check at /healthz.
func RegisterHealthRoute(e *echo.Echo, version string) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "version": version})
	})
}
