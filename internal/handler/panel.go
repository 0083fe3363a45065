package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/sponsor-pass-manager/internal/middleware"
	"github.com/iliyamo/sponsor-pass-manager/internal/panel"
	"github.com/iliyamo/sponsor-pass-manager/internal/passapi"
)

// PanelHandler exposes the intents of a manager's panel session as JSON
// endpoints.  Every response carries the panel snapshot so the host can
// render it directly.
type PanelHandler struct {
	Sessions    *panel.Registry
	WaitTimeout time.Duration // upper bound for ?wait=true
}

func NewPanelHandler(sessions *panel.Registry, waitTimeout time.Duration) *PanelHandler {
	if sessions == nil {
		panic("nil registry passed to NewPanelHandler")
	}
	if waitTimeout <= 0 {
		waitTimeout = 10 * time.Second
	}
	return &PanelHandler{Sessions: sessions, WaitTimeout: waitTimeout}
}

// ----- DTOs -----

type selectSponsorReq struct {
	SponsorID int64 `json:"sponsorId"`
}
type filterReq struct {
	IncludeRevoked bool `json:"includeRevoked"`
}
type pageReq struct {
	Page int `json:"page"`
}

// session resolves the caller's panel and makes sure its sponsors are
// loaded.  A failed sponsor load is reported through the snapshot.
func (h *PanelHandler) session(c echo.Context) (*panel.Panel, error) {
	managerID, token, err := middleware.HostSession(c)
	if err != nil {
		return nil, err
	}
	p := h.Sessions.Get(managerID, token)
	_ = p.Load(c.Request().Context())
	return p, nil
}

// render answers with the snapshot, optionally after the in-flight fetch
// has settled.
func (h *PanelHandler) render(c echo.Context, p *panel.Panel, status int) error {
	if c.QueryParam("wait") != "true" {
		return c.JSON(status, p.Snapshot())
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.WaitTimeout)
	defer cancel()
	snap, _ := p.Await(ctx)
	return c.JSON(status, snap)
}

func (h *PanelHandler) fail(c echo.Context, p *panel.Panel, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg, "panel": p.Snapshot()})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}

// statusOf maps a panel error to an HTTP status.  Service rejections keep
// their 4xx status; anything else from upstream is a bad gateway.
func statusOf(err error) int {
	var perr *panel.Error
	switch {
	case errors.As(err, &perr):
		if s := passapi.StatusFor(perr.Err); s >= 400 && s < 500 {
			return s
		}
		return http.StatusBadGateway
	case errors.Is(err, panel.ErrUnknownSponsor):
		return http.StatusNotFound
	case errors.Is(err, panel.ErrMissingHolder),
		errors.Is(err, panel.ErrInvalidExpiry),
		errors.Is(err, panel.ErrExpiryInPast):
		return http.StatusBadRequest
	case errors.Is(err, panel.ErrNoSponsorSelected),
		errors.Is(err, panel.ErrSubmitInProgress),
		errors.Is(err, panel.ErrPassNotRevocable),
		errors.Is(err, panel.ErrNoPendingRevoke):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Get handles GET /v1/panel.
func (h *PanelHandler) Get(c echo.Context) error {
	p, err := h.session(c)
	if err != nil {
		return unauthorized(c)
	}
	return h.render(c, p, http.StatusOK)
}

// SelectSponsor handles POST /v1/panel/sponsor.
func (h *PanelHandler) SelectSponsor(c echo.Context) error {
	p, err := h.session(c)
	if err != nil {
		return unauthorized(c)
	}
	var body selectSponsorReq
	if err := c.Bind(&body); err != nil {
		return h.fail(c, p, http.StatusBadRequest, "invalid request body")
	}
	if err := p.SelectSponsor(body.SponsorID); err != nil {
		return h.fail(c, p, statusOf(err), err.Error())
	}
	return h.render(c, p, http.StatusOK)
}

// SetFilter handles POST /v1/panel/filter.
func (h *PanelHandler) SetFilter(c echo.Context) error {
	p, err := h.session(c)
	if err != nil {
		return unauthorized(c)
	}
	var body filterReq
	if err := c.Bind(&body); err != nil {
		return h.fail(c, p, http.StatusBadRequest, "invalid request body")
	}
	p.SetIncludeRevoked(body.IncludeRevoked)
	return h.render(c, p, http.StatusOK)
}

// SetPage handles POST /v1/panel/page.
func (h *PanelHandler) SetPage(c echo.Context) error {
	p, err := h.session(c)
	if err != nil {
		return unauthorized(c)
	}
	var body pageReq
	if err := c.Bind(&body); err != nil {
		return h.fail(c, p, http.StatusBadRequest, "invalid request body")
	}
	if !p.SetPage(body.Page) {
		return h.fail(c, p, http.StatusBadRequest, "page out of range")
	}
	return h.render(c, p, http.StatusOK)
}

// OpenCreateForm handles POST /v1/panel/create-form/open.
func (h *PanelHandler) OpenCreateForm(c echo.Context) error {
	p, err := h.session(c)
	if err != nil {
		return unauthorized(c)
	}
	p.OpenCreateForm()
	return h.render(c, p, http.StatusOK)
}

// CancelCreateForm handles POST /v1/panel/create-form/cancel.
func (h *PanelHandler) CancelCreateForm(c echo.Context) error {
	p, err := h.session(c)
	if err != nil {
		return unauthorized(c)
	}
	p.CancelCreateForm()
	return h.render(c, p, http.StatusOK)
}

// CreatePass handles POST /v1/panel/passes, the create form submission.
func (h *PanelHandler) CreatePass(c echo.Context) error {
	p, err := h.session(c)
	if err != nil {
		return unauthorized(c)
	}
	var body panel.FormValues
	if err := c.Bind(&body); err != nil {
		return h.fail(c, p, http.StatusBadRequest, "invalid request body")
	}
	if _, err := p.SubmitCreateForm(c.Request().Context(), body); err != nil {
		return h.fail(c, p, statusOf(err), err.Error())
	}
	return h.render(c, p, http.StatusCreated)
}

func passIDParam(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// RequestRevoke handles POST /v1/panel/passes/:id/revoke and opens the
// confirmation.  Nothing is sent to the partnerships service yet.
func (h *PanelHandler) RequestRevoke(c echo.Context) error {
	p, err := h.session(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := passIDParam(c)
	if !ok {
		return h.fail(c, p, http.StatusBadRequest, "invalid id")
	}
	if _, err := p.RequestRevoke(id); err != nil {
		return h.fail(c, p, statusOf(err), err.Error())
	}
	return h.render(c, p, http.StatusOK)
}

// ConfirmRevoke handles POST /v1/panel/passes/:id/revoke/confirm.
func (h *PanelHandler) ConfirmRevoke(c echo.Context) error {
	p, err := h.session(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := passIDParam(c)
	if !ok {
		return h.fail(c, p, http.StatusBadRequest, "invalid id")
	}
	if err := p.ConfirmRevoke(c.Request().Context(), id); err != nil {
		return h.fail(c, p, statusOf(err), err.Error())
	}
	return h.render(c, p, http.StatusOK)
}

// CancelRevoke handles DELETE /v1/panel/passes/:id/revoke.
func (h *PanelHandler) CancelRevoke(c echo.Context) error {
	p, err := h.session(c)
	if err != nil {
		return unauthorized(c)
	}
	p.CancelRevoke()
	return h.render(c, p, http.StatusOK)
}
