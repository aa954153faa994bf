package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-floor-planner/internal/detection"
	"github.com/iliyamo/venue-floor-planner/internal/model"
	"github.com/iliyamo/venue-floor-planner/internal/optimizer"
)

// LayoutHandler serves the venue floor: owners edit and optimize it,
// anyone may read a snapshot.
type LayoutHandler struct {
	Floor Floor
	Now   func() time.Time
}

func NewLayoutHandler(f Floor) *LayoutHandler {
	return &LayoutHandler{Floor: f, Now: func() time.Time { return time.Now().UTC() }}
}

// atQuery reads ?at=, defaulting to now.
func (h *LayoutHandler) atQuery(c echo.Context) (time.Time, error) {
	raw := c.QueryParam("at")
	if raw == "" {
		return h.Now(), nil
	}
	return parseInstant(raw)
}

// Snapshot handles GET /v1/layouts/:id/snapshot?at=.
func (h *LayoutHandler) Snapshot(c echo.Context) error {
	id, ok := layoutParam(c)
	if !ok {
		return badRequest(c, "invalid layout id")
	}
	at, err := h.atQuery(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	snap, err := h.Floor.Snapshot(ctx, id, at)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"at": at, "layout": snap})
}

// Save handles PUT /v1/layouts. The body is a complete layout.
func (h *LayoutHandler) Save(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	var l model.Layout
	if err := c.Bind(&l); err != nil {
		return badRequest(c, "invalid layout body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	saved, err := h.Floor.SaveLayout(ctx, l, owner)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, saved)
}

// ImportDetections handles POST /v1/layouts/detections.
func (h *LayoutHandler) ImportDetections(c echo.Context) error {
	owner, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	var req detection.Request
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid detection body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	saved, rep, err := h.Floor.ImportDetections(ctx, req, owner)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"layout": saved, "dropped": rep})
}

// Optimize handles POST /v1/layouts/:id/optimize. Nothing is stored.
func (h *LayoutHandler) Optimize(c echo.Context) error {
	id, ok := layoutParam(c)
	if !ok {
		return badRequest(c, "invalid layout id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Floor.Optimize(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	if res.Unplaced == nil {
		res.Unplaced = []string{}
	}
	return c.JSON(http.StatusOK, res)
}

type previewReq struct {
	At       string             `json:"at"`
	Proposal optimizer.Proposal `json:"proposal"`
}

// Preview handles POST /v1/layouts/:id/apply: the floor at the given
// instant with the proposal applied, without storing it.
func (h *LayoutHandler) Preview(c echo.Context) error {
	id, ok := layoutParam(c)
	if !ok {
		return badRequest(c, "invalid layout id")
	}
	var req previewReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if len(req.Proposal.TableIDs) == 0 {
		return badRequest(c, "proposal.table_ids required")
	}
	at := h.Now()
	if req.At != "" {
		var err error
		if at, err = parseInstant(req.At); err != nil {
			return fail(c, err)
		}
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	out, err := h.Floor.Preview(ctx, id, at, req.Proposal)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"at": at, "layout": out})
}
