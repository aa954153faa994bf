// Package handler holds the echo handlers of the floor planner API. Every
// error body has the shape {"error": message, "code": CODE}.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	apperr "github.com/iliyamo/venue-floor-planner/internal/errors"
	"github.com/iliyamo/venue-floor-planner/internal/logging"
	"github.com/iliyamo/venue-floor-planner/internal/middleware"
)

// requestTimeout bounds the store and planner work of one request. The
// layout redistribution checks the same context and stops when it expires.
const requestTimeout = 10 * time.Second

// statusFor maps an error code to its HTTP status.
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case apperr.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.ErrCodeForbidden:
		return http.StatusForbidden
	case apperr.ErrCodeNotFound, apperr.ErrCodeLayoutNotFound, apperr.ErrCodeNoActiveLayout:
		return http.StatusNotFound
	case apperr.ErrCodeConflict, apperr.ErrCodeNotCancellable:
		return http.StatusConflict
	case apperr.ErrCodeInsufficientCapacity, apperr.ErrCodeNoCluster, apperr.ErrCodeNoSpace:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// fail writes err as a JSON error body. Internal faults are logged and
// answered with a generic message.
func fail(c echo.Context, err error) error {
	code := apperr.GetCode(err)
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("request failed",
			"method", c.Request().Method, "path", c.Path(), "err", err)
		return c.JSON(status, echo.Map{"error": "internal error", "code": apperr.ErrCodeInternal})
	}
	return c.JSON(status, echo.Map{"error": apperr.UserMessage(err), "code": code})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg, "code": apperr.ErrCodeInvalidInput})
}

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// instantLayouts are the accepted formats for an instant. Values without a
// zone are read as UTC.
var instantLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04"}

func parseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.New(apperr.ErrCodeInvalidInput,
		"invalid instant %q, expected RFC 3339 or YYYY-MM-DDTHH:MM", s)
}

// layoutParam reads :id, where "active" selects the active layout (0).
func layoutParam(c echo.Context) (uint64, bool) {
	raw := c.Param("id")
	if raw == "active" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	return id, err == nil && id != 0
}

func idParam(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}

func currentUser(c echo.Context) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, apperr.New(apperr.ErrCodeUnauthorized, "unauthorized")
	}
	return id, nil
}
