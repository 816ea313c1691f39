package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// Check is one dependency probed by the readiness endpoint.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// PoolCheck probes the Postgres pool.
func PoolCheck(pool *pgxpool.Pool) Check {
	return Check{Name: "postgres", Ping: pool.Ping}
}

type checkResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthHandler pings every check with a shared 5s budget and answers 503 if
// any of them fails.
func HealthHandler(checks ...Check) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		healthy := true
		results := make(map[string]checkResult, len(checks))
		for _, chk := range checks {
			if err := chk.Ping(ctx); err != nil {
				healthy = false
				results[chk.Name] = checkResult{Status: "unhealthy", Error: err.Error()}
				continue
			}
			results[chk.Name] = checkResult{Status: "healthy"}
		}

		status, code := "healthy", http.StatusOK
		if !healthy {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		return c.JSON(code, map[string]interface{}{
			"status": status,
			"checks": results,
		})
	}
}
