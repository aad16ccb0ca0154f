package pharmacy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
)

// grantRoles injects roles the way the auth middleware would, so routes can
// be exercised through the full router.
func grantRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := context.WithValue(c.Request().Context(), auth.UserRolesKey, roles)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func TestMasterRoutesWorkUnderAnyPrefix(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	h := NewHandler(svc, 0)

	e := echo.New()
	g := e.Group("/hospital-api", grantRoles("pharmacist"))
	h.RegisterRoutes(g)

	req := httptest.NewRequest(http.MethodPost, "/hospital-api/pharmacy/units",
		strings.NewReader(`{"name":"Syrup"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create unit: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created Master
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Name != "Syrup" {
		t.Errorf("created name = %q, want Syrup", created.Name)
	}

	req = httptest.NewRequest(http.MethodGet, "/hospital-api/pharmacy/units", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("list units: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var units []*Master
	if err := json.Unmarshal(rec.Body.Bytes(), &units); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	// Tablet and Capsule seeds plus the new Syrup.
	if len(units) != 3 {
		t.Errorf("units = %d, want 3", len(units))
	}
}

func TestMasterRoutesKindIsolation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	h := NewHandler(svc, 0)

	e := echo.New()
	g := e.Group("/api/v1", grantRoles("admin"))
	h.RegisterRoutes(g)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pharmacy/groups", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("list groups: status = %d", rec.Code)
	}
	var groups []*Master
	if err := json.Unmarshal(rec.Body.Bytes(), &groups); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "OTC" {
		t.Errorf("groups = %+v, want only the OTC seed", groups)
	}
}
