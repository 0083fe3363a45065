package middleware

// identity.go resolves who is calling, for keying rate limits.  Requests
// that went through HostAuth are keyed by manager id; anything else is
// "anon".

import "github.com/labstack/echo/v4"

func currentManagerID(c echo.Context) string {
	if v, ok := c.Get(ctxManagerID).(string); ok && v != "" {
		return v
	}
	return "anon"
}
