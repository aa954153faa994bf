package router

import (
	"github.com/iliyamo/venue-floor-planner/internal/middleware"
	"github.com/iliyamo/venue-floor-planner/internal/model"
	"github.com/labstack/echo/v4"
)

// RegisterReservations mounts availability and the booking lifecycle.
// Booking and cancelling are CUSTOMER only; reading a reservation is open
// to owners too, who may read any of them.
func RegisterReservations(e *echo.Echo, d Deps) {
	h := d.Reservations
	cache := middleware.NewRedisCache(d.Cache, d.Redis)
	invalidate := middleware.InvalidateOnWrite(d.Cache, d.Redis)
	bucket := middleware.NewTokenBucket(d.RateLimit, d.Redis)

	e.GET("/v1/availability", h.Availability, cache)

	g := e.Group(
		"/v1",
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleCustomer),
	)
	g.POST("/reservations", h.Reserve, bucket, invalidate)
	g.DELETE("/reservations/:id", h.Cancel, invalidate)
	g.GET("/my-reservations", h.Mine)

	r := e.Group(
		"/v1/reservations",
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleOwner, model.RoleCustomer),
	)
	r.GET("/:id", h.Detail)
}
