package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health answers load balancer health checks: 200 when the database answers a
// ping, 503 otherwise. A nil DB only reports the process is up.
func Health(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db == nil {
			return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "database": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "database": "ok"})
	}
}
