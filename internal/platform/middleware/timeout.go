package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestTimeout puts a deadline on the request context. Handlers that give
// up with context.DeadlineExceeded are answered with 504.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{
		Timeout: timeout,
		ErrorHandler: func(err error, c echo.Context) error {
			if c.Response().Committed {
				return nil
			}
			return c.JSON(http.StatusGatewayTimeout, map[string]string{
				"message": "request processing exceeded the allowed time limit",
			})
		},
	})
}
