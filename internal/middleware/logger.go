package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/venue-floor-planner/internal/logging"
)

// RequestLogger attaches logger to each request context and writes one
// access line per request.
func RequestLogger(logger *log.Logger) echo.MiddlewareFunc {
	access := echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			kv := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency.Round(time.Microsecond)}
			if v.Error != nil {
				logger.Warn("request", append(kv, "err", v.Error)...)
				return nil
			}
			logger.Info("request", kv...)
			return nil
		},
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		inner := access(next)
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.WithLogger(req.Context(), logger)))
			return inner(c)
		}
	}
}
