package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/riskcheck/riskcheck/internal/platform/auth"
)

func TestRateLimit_RequestsWithinBurst(t *testing.T) {
	e := echo.New()
	handler := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 5})(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		if err := handler(e.NewContext(req, rec)); err != nil {
			t.Fatalf("request %d: expected no error, got %v", i+1, err)
		}
	}
}

func TestRateLimit_ExceedsBurst(t *testing.T) {
	e := echo.New()
	handler := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if err := handler(e.NewContext(req, httptest.NewRecorder())); err != nil {
			t.Fatalf("request %d: expected no error, got %v", i+1, err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	err := handler(e.NewContext(req, rec))
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %v", err)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestRateLimitKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	c := e.NewContext(req, httptest.NewRecorder())
	if key, _ := rateLimitKey(c); key != "ip:10.0.0.1" {
		t.Errorf("expected ip key, got %s", key)
	}

	ctx := context.WithValue(req.Context(), auth.UserIDKey, "user-7")
	c.SetRequest(req.WithContext(ctx))
	if key, _ := rateLimitKey(c); key != "user:user-7" {
		t.Errorf("expected user key, got %s", key)
	}
}
