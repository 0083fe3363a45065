package router // package router wires handlers and middleware onto echo

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/sponsor-pass-manager/internal/handler"
	"github.com/iliyamo/sponsor-pass-manager/internal/middleware"
)

// RegisterRoutes registers routes that need no host session.  Currently
// it exposes only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPanel registers the panel intents under /v1/panel.  Every route
// requires a host token carrying one of roles.  limit, when non-nil,
// guards the mutating routes only so that polling the snapshot is never
// throttled.
func RegisterPanel(e *echo.Echo, h *handler.PanelHandler, secret string, limit echo.MiddlewareFunc, roles ...string) {
	g := e.Group("/v1/panel")
	g.Use(middleware.HostAuth(secret))
	g.Use(middleware.RequireRole(roles...))

	g.GET("", h.Get)

	var m []echo.MiddlewareFunc
	if limit != nil {
		m = append(m, limit)
	}
	g.POST("/sponsor", h.SelectSponsor, m...)
	g.POST("/filter", h.SetFilter, m...)
	g.POST("/page", h.SetPage, m...)
	g.POST("/create-form/open", h.OpenCreateForm, m...)
	g.POST("/create-form/cancel", h.CancelCreateForm, m...)
	g.POST("/passes", h.CreatePass, m...)
	g.POST("/passes/:id/revoke", h.RequestRevoke, m...)
	g.POST("/passes/:id/revoke/confirm", h.ConfirmRevoke, m...)
	g.DELETE("/passes/:id/revoke", h.CancelRevoke, m...)
}

// RegisterPartnerships registers the partnerships REST surface under
// /v1/partnerships.  Callers present the host token the panel forwards.
// cache, when non-nil, fronts the sponsor list; pass listings change on
// every mutation and are never cached.
func RegisterPartnerships(e *echo.Echo, h *handler.PartnershipsHandler, secret string, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/partnerships")
	g.Use(middleware.HostAuth(secret))

	if cache != nil {
		g.GET("/sponsors", h.ListSponsors, cache)
	} else {
		g.GET("/sponsors", h.ListSponsors)
	}
	g.GET("/sponsor-passes", h.ListPasses)
	g.GET("/sponsor-passes/active", h.ListActivePasses)
	g.POST("/sponsor-passes", h.CreatePass)
	g.POST("/sponsor-passes/:id/revoke", h.RevokePass)
}
