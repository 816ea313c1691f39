package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testSigningKey = []byte("test-secret-key-for-unit-tests-only")

func runJWT(t *testing.T, cfg JWTConfig, header string, handler echo.HandlerFunc) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	return JWTMiddleware(cfg)(handler)(e.NewContext(req, httptest.NewRecorder()))
}

func expectStatus(t *testing.T, err error, code int) {
	t.Helper()
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected echo.HTTPError, got %v", err)
	}
	if httpErr.Code != code {
		t.Errorf("expected %d, got %d", code, httpErr.Code)
	}
}

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	err := runJWT(t, JWTConfig{SigningKey: testSigningKey}, "", okHandler)
	expectStatus(t, err, http.StatusUnauthorized)
}

func TestJWTMiddleware_InvalidFormat(t *testing.T) {
	for _, header := range []string{"Token abc123", "Bearer", "Bearer ", "Basic dXNlcjpwYXNz"} {
		t.Run(header, func(t *testing.T) {
			err := runJWT(t, JWTConfig{SigningKey: testSigningKey}, header, okHandler)
			expectStatus(t, err, http.StatusUnauthorized)
		})
	}
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	cfg := JWTConfig{SigningKey: testSigningKey, Issuer: "riskcheck"}
	token, err := IssueToken(cfg, "user-42", []string{RolePatient}, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	err = runJWT(t, cfg, "Bearer "+token, func(c echo.Context) error {
		ctx := c.Request().Context()
		if got := UserIDFromContext(ctx); got != "user-42" {
			t.Errorf("expected user-42, got %q", got)
		}
		if roles := RolesFromContext(ctx); len(roles) != 1 || roles[0] != RolePatient {
			t.Errorf("unexpected roles: %v", roles)
		}
		return c.String(http.StatusOK, "ok")
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	cfg := JWTConfig{SigningKey: testSigningKey}
	token, err := IssueToken(cfg, "user-42", nil, -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	expectStatus(t, runJWT(t, cfg, "Bearer "+token, okHandler), http.StatusUnauthorized)
}

func TestJWTMiddleware_WrongKey(t *testing.T) {
	token, _ := IssueToken(JWTConfig{SigningKey: []byte("another-key-another-key-another-k")}, "u", nil, time.Hour)
	expectStatus(t, runJWT(t, JWTConfig{SigningKey: testSigningKey}, "Bearer "+token, okHandler), http.StatusUnauthorized)
}

func TestJWTMiddleware_MissingSubject(t *testing.T) {
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Roles: []string{RoleAdmin}}).SignedString(testSigningKey)
	expectStatus(t, runJWT(t, JWTConfig{SigningKey: testSigningKey}, "Bearer "+token, okHandler), http.StatusUnauthorized)
}

func TestJWTMiddleware_IssuerMismatch(t *testing.T) {
	token, _ := IssueToken(JWTConfig{SigningKey: testSigningKey, Issuer: "elsewhere"}, "u", nil, time.Hour)
	cfg := JWTConfig{SigningKey: testSigningKey, Issuer: "riskcheck"}
	expectStatus(t, runJWT(t, cfg, "Bearer "+token, okHandler), http.StatusUnauthorized)
}

func TestDevAuthMiddleware_Defaults(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := DevAuthMiddleware()(func(c echo.Context) error {
		ctx := c.Request().Context()
		if UserIDFromContext(ctx) != "dev-user" {
			t.Errorf("expected dev-user, got %q", UserIDFromContext(ctx))
		}
		if !HasRole(ctx, RoleDoctor) {
			t.Error("expected admin default to satisfy any role")
		}
		return nil
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDevAuthMiddleware_HeaderOverride(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-ID", "alice")
	req.Header.Set("X-User-Roles", "patient")
	c := e.NewContext(req, httptest.NewRecorder())

	_ = DevAuthMiddleware()(func(c echo.Context) error {
		ctx := c.Request().Context()
		if UserIDFromContext(ctx) != "alice" {
			t.Errorf("expected alice, got %q", UserIDFromContext(ctx))
		}
		if HasRole(ctx, RoleDoctor) {
			t.Error("patient must not satisfy doctor")
		}
		return nil
	})(c)
}

func TestDevAuthMiddleware_RolesWithSpaces(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-ID", "bob")
	req.Header.Set("X-User-Roles", "patient, doctor ,")
	c := e.NewContext(req, httptest.NewRecorder())

	_ = DevAuthMiddleware()(func(c echo.Context) error {
		ctx := c.Request().Context()
		roles := RolesFromContext(ctx)
		if len(roles) != 2 || roles[0] != RolePatient || roles[1] != RoleDoctor {
			t.Errorf("unexpected roles: %q", roles)
		}
		if !HasRole(ctx, RoleDoctor) {
			t.Error("expected doctor role after trimming")
		}
		return nil
	})(c)
}
