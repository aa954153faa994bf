// Package middleware holds the echo middleware of the API: bearer token
// authentication, role checks, the Redis response cache and the Redis
// token bucket.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-floor-planner/internal/utils"
)

// JWTAuth validates the bearer access token and stores the caller's id and
// role in the context for UserID and Role.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token", "code": "UNAUTHORIZED"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token", "code": "UNAUTHORIZED"})
			}
			id, _ := claims.UserID()
			SetIdentity(c, id, claims.Role)
			return next(c)
		}
	}
}
