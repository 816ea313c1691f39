package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const RequestIDHeader = echo.HeaderXRequestID

// RequestID reuses an inbound X-Request-ID or mints one, echoes it on the
// response and stores it under "request_id" for the logger.
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		TargetHeader: RequestIDHeader,
		Generator:    func() string { return uuid.NewString() },
		RequestIDHandler: func(c echo.Context, rid string) {
			c.Set("request_id", rid)
		},
	})
}
