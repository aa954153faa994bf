// Package router wires the HTTP handlers and their middleware onto echo.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/venue-floor-planner/internal/config"
	"github.com/iliyamo/venue-floor-planner/internal/handler"
	"github.com/iliyamo/venue-floor-planner/internal/middleware"
	"github.com/iliyamo/venue-floor-planner/internal/model"
)

// Deps is everything the routes need. Redis may be nil; cache and rate
// limiting then pass through.
type Deps struct {
	JWTSecret    string
	DB           handler.Pinger
	Auth         *handler.AuthHandler
	Layouts      *handler.LayoutHandler
	Reservations *handler.ReservationHandler
	Redis        *redis.Client
	Cache        config.CacheConfig
	RateLimit    config.RateLimitConfig
}

// Register mounts every route of the API.
func Register(e *echo.Echo, d Deps) {
	RegisterRoutes(e, d.DB)
	RegisterAuth(e, d.Auth, d.JWTSecret)
	RegisterLayouts(e, d)
	RegisterReservations(e, d)
}

// RegisterRoutes mounts the unauthenticated health check.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth mounts /v1/auth (no session needed) and the protected
// /v1/me and /v1/logout.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logs out the session of the refresh token in the body.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner, model.RoleCustomer),
	)
	auth.GET("/me", a.Me)
	// Without a refresh token in the body this revokes every session.
	auth.POST("/logout", a.Logout)
}
