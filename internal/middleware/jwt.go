package middleware // middleware holds the echo middleware shared by both servers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by HostAuth.
const (
	ctxManagerID = "manager_id"
	ctxRole      = "role"
	ctxHostToken = "host_token"
)

// HostAuth rejects requests that do not come from inside the wallet host.
// The host signs an HS256 session token with the shared secret and sends it
// as a Bearer token; the token's subject is the sponsor manager's id.  On
// success the manager id, role and raw token are stored in the context.
func HostAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "this app must run inside the wallet host"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid host token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			sub, err := claims.GetSubject()
			if err != nil || sub == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "host token has no subject"})
			}

			c.Set(ctxManagerID, sub)
			c.Set(ctxRole, claims["role"])
			c.Set(ctxHostToken, raw)
			return next(c)
		}
	}
}

// errNoSession is returned when HostAuth did not run for a request.
var errNoSession = errors.New("no host session in context")

// HostSession returns the manager id and raw host token stored by HostAuth.
func HostSession(c echo.Context) (managerID, token string, err error) {
	managerID, _ = c.Get(ctxManagerID).(string)
	token, _ = c.Get(ctxHostToken).(string)
	if managerID == "" {
		return "", "", errNoSession
	}
	return managerID, token, nil
}
