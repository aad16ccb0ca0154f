package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func signedToken(t *testing.T, key []byte, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return s
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	key := []byte("test-signing-key")
	tokenStr := signedToken(t, key, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		HospitalID: "h42",
		Roles:      []string{"doctor"},
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID string
	var gotRoles []string
	h := JWTMiddleware(JWTConfig{SigningKey: key})(func(c echo.Context) error {
		ctx := c.Request().Context()
		gotUserID = UserIDFromContext(ctx)
		gotRoles = RolesFromContext(ctx)
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("middleware rejected valid token: %v", err)
	}
	if gotUserID != "user-1" {
		t.Errorf("user id = %q, want user-1", gotUserID)
	}
	if len(gotRoles) != 1 || gotRoles[0] != "doctor" {
		t.Errorf("roles = %v, want [doctor]", gotRoles)
	}
	if hid, _ := c.Get("jwt_hospital_id").(string); hid != "h42" {
		t.Errorf("jwt_hospital_id = %q, want h42", hid)
	}
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	h := JWTMiddleware(JWTConfig{SigningKey: []byte("k")})(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestJWTMiddlewareExpiredToken(t *testing.T) {
	key := []byte("test-signing-key")
	tokenStr := signedToken(t, key, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	c := e.NewContext(req, httptest.NewRecorder())

	h := JWTMiddleware(JWTConfig{SigningKey: key})(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %v", err)
	}
}

func TestJWTMiddlewareBadFormat(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	c := e.NewContext(req, httptest.NewRecorder())

	h := JWTMiddleware(JWTConfig{SigningKey: []byte("k")})(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := h(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for non-bearer auth, got %v", err)
	}
}

func TestDevAuthMiddlewareDefaults(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	h := DevAuthMiddleware()(func(c echo.Context) error {
		ctx := c.Request().Context()
		if UserIDFromContext(ctx) != "dev-user" {
			t.Errorf("user id = %q, want dev-user", UserIDFromContext(ctx))
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("dev middleware rejected request: %v", err)
	}
	if hid, _ := c.Get("jwt_hospital_id").(string); hid != "default" {
		t.Errorf("jwt_hospital_id = %q, want default", hid)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	call := func(roles []string, required ...string) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(req.Context(), UserRolesKey, roles)
		req = req.WithContext(ctx)
		c := e.NewContext(req, httptest.NewRecorder())
		h := RequireRole(required...)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		return h(c)
	}

	if err := call([]string{"doctor"}, "doctor"); err != nil {
		t.Errorf("doctor should pass doctor check: %v", err)
	}
	if err := call([]string{"admin"}, "pharmacist"); err != nil {
		t.Errorf("admin should pass any role check: %v", err)
	}
	err := call([]string{"receptionist"}, "doctor")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Errorf("expected 403 for missing role, got %v", err)
	}
	err = call(nil, "doctor")
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusForbidden {
		t.Errorf("expected 403 for no roles, got %v", err)
	}
}
