package router

import (
	"github.com/iliyamo/venue-floor-planner/internal/middleware"
	"github.com/iliyamo/venue-floor-planner/internal/model"
	"github.com/labstack/echo/v4"
)

// RegisterLayouts mounts the floor endpoints. Snapshots are public and
// served through the Redis cache; editing the layout is OWNER only and
// retires every cached floor.
func RegisterLayouts(e *echo.Echo, d Deps) {
	h := d.Layouts
	cache := middleware.NewRedisCache(d.Cache, d.Redis)
	invalidate := middleware.InvalidateOnWrite(d.Cache, d.Redis)

	// :id is numeric or "active"
	e.GET("/v1/layouts/:id/snapshot", h.Snapshot, cache)

	g := e.Group(
		"/v1/layouts",
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleOwner),
	)
	g.PUT("", h.Save, invalidate)
	g.POST("/detections", h.ImportDetections, invalidate)

	// Neither of these stores anything.
	g.POST("/:id/optimize", h.Optimize)
	g.POST("/:id/apply", h.Preview)
}
