package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/riskcheck/riskcheck/internal/platform/auth"
)

// Logger writes one line per request. The request-scoped logger is also
// attached to the request context so services can use zerolog.Ctx.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			reqLogger := logger.With().Str("request_id", rid).Logger()
			c.SetRequest(req.WithContext(reqLogger.WithContext(req.Context())))

			err := next(c)
			if err != nil {
				// Let echo's error handler set the status before we log it.
				c.Error(err)
			}

			evt := reqLogger.Info()
			if status := c.Response().Status; status >= 500 {
				evt = reqLogger.Error().Err(err)
			} else if status >= 400 {
				evt = reqLogger.Warn().Err(err)
			}
			evt.
				Str("user_id", auth.UserIDFromContext(c.Request().Context())).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return nil
		}
	}
}
