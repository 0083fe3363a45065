package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole lets a request through only when the role claim stored by
// HostAuth is one of roles.  Sponsor managers carry SPONSOR_MANAGER; any
// other wallet user is answered with 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ctxRole).(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "you need to be assigned as a sponsor manager"})
			}
			return next(c)
		}
	}
}
