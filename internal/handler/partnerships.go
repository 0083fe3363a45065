package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/sponsor-pass-manager/internal/passapi"
)

// defaultLimit applies when a listing request carries no limit.
const defaultLimit = 100

// PartnershipsHandler serves the partnerships REST surface over any
// passapi.Service.
type PartnershipsHandler struct {
	Svc passapi.Service
}

func NewPartnershipsHandler(svc passapi.Service) *PartnershipsHandler {
	if svc == nil {
		panic("nil service passed to NewPartnershipsHandler")
	}
	return &PartnershipsHandler{Svc: svc}
}

// serviceError writes err as {"error": msg}.  Unexpected errors are logged
// and hidden behind a generic message.
func serviceError(c echo.Context, err error) error {
	status := passapi.StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("partnerships: %s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

// pageParams reads limit and offset.  Missing values default to the first
// defaultLimit rows.
func pageParams(c echo.Context) (passapi.PageParams, error) {
	p := passapi.PageParams{Limit: defaultLimit}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, errors.New("invalid limit")
		}
		p.Limit = n
	}
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, errors.New("invalid offset")
		}
		p.Offset = n
	}
	return p, nil
}

// ListSponsors handles GET /v1/partnerships/sponsors.
func (h *PartnershipsHandler) ListSponsors(c echo.Context) error {
	page, err := h.Svc.ListSponsors(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// ListActivePasses handles GET /v1/partnerships/sponsor-passes/active.
func (h *PartnershipsHandler) ListActivePasses(c echo.Context) error {
	p, err := pageParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	page, err := h.Svc.ListActiveSponsorPasses(c.Request().Context(), p)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// ListPasses handles GET /v1/partnerships/sponsor-passes.  Revoked passes
// are only listed with ?includeRevoked=true.
func (h *PartnershipsHandler) ListPasses(c echo.Context) error {
	p, err := pageParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	includeRevoked := false
	if v := c.QueryParam("includeRevoked"); v != "" {
		includeRevoked, err = strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid includeRevoked"})
		}
	}
	page, err := h.Svc.ListAllSponsorPasses(c.Request().Context(), passapi.ListAllParams{
		Limit:          p.Limit,
		Offset:         p.Offset,
		IncludeRevoked: includeRevoked,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// CreatePass handles POST /v1/partnerships/sponsor-passes.
func (h *PartnershipsHandler) CreatePass(c echo.Context) error {
	var body passapi.CreatePassRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Sponsor <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "sponsor is required"})
	}
	pass, err := h.Svc.CreateSponsorPass(c.Request().Context(), body)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, pass)
}

// RevokePass handles POST /v1/partnerships/sponsor-passes/:id/revoke.
func (h *PartnershipsHandler) RevokePass(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Svc.RevokeSponsorPass(c.Request().Context(), passapi.RevokePassRequest{ID: id}); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
