package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-floor-planner/internal/middleware"
	"github.com/iliyamo/venue-floor-planner/internal/model"
	"github.com/iliyamo/venue-floor-planner/internal/service"
)

// ReservationHandler serves availability checks and the booking lifecycle.
type ReservationHandler struct {
	Floor Floor
}

func NewReservationHandler(f Floor) *ReservationHandler {
	return &ReservationHandler{Floor: f}
}

// Availability handles GET /v1/availability?at=&party=. A party that
// cannot be seated is still a 200 with available=false and the reason.
func (h *ReservationHandler) Availability(c echo.Context) error {
	rawAt := c.QueryParam("at")
	if rawAt == "" {
		return badRequest(c, "at is required")
	}
	at, err := parseInstant(rawAt)
	if err != nil {
		return fail(c, err)
	}
	party, err := strconv.Atoi(c.QueryParam("party"))
	if err != nil {
		return badRequest(c, "party must be an integer")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	av, err := h.Floor.Availability(ctx, at, party)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, struct {
		Available bool `json:"available"`
		service.Availability
	}{av.Available(), av})
}

type reserveReq struct {
	At        string   `json:"at"`
	PartySize int      `json:"party_size"`
	TableID   string   `json:"table_id"`
	TableIDs  []string `json:"table_ids"`
}

// Reserve handles POST /v1/reservations. With table_id that table is
// booked, with table_ids those tables are merged into one row; without
// either the planner picks a table or a cluster.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if strings.TrimSpace(req.At) == "" {
		return badRequest(c, "at is required")
	}
	at, err := parseInstant(req.At)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Floor.Reserve(ctx, service.ReserveRequest{
		UserID:    uid,
		At:        at,
		PartySize: req.PartySize,
		TableID:   strings.TrimSpace(req.TableID),
		TableIDs:  trimAll(req.TableIDs),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func trimAll(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strings.TrimSpace(id)
	}
	return out
}

// Mine handles GET /v1/my-reservations.
func (h *ReservationHandler) Mine(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.Floor.ListForUser(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}

// Detail handles GET /v1/reservations/:id.
func (h *ReservationHandler) Detail(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	id, ok := idParam(c)
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	d, err := h.Floor.Detail(ctx, id, uid, middleware.Role(c) == model.RoleOwner)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// Cancel handles DELETE /v1/reservations/:id.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	id, ok := idParam(c)
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Floor.Cancel(ctx, id, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
