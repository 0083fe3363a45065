package handler // handler holds the echo handlers of both binaries

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness probe used by load balancers and the host.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
