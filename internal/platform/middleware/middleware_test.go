package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/auth"
)

func TestRequestIDGenerated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	rid, _ := c.Get("request_id").(string)
	if rid == "" {
		t.Error("expected generated request id")
	}
	if got := rec.Header().Get("X-Request-ID"); got != rid {
		t.Errorf("response header = %q, want %q", got, rid)
	}
}

func TestRequestIDHonorsIncoming(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rid, _ := c.Get("request_id").(string); rid != "abc-123" {
		t.Errorf("request_id = %q, want abc-123", rid)
	}
}

func TestLoggerCarriesHospitalAndUser(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, "dr-1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("tenant_id", "mercy")

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := Logger(logger)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	line := buf.String()
	if !strings.Contains(line, `"hospital":"mercy"`) {
		t.Errorf("log line missing hospital field: %s", line)
	}
	if !strings.Contains(line, `"user_id":"dr-1"`) {
		t.Errorf("log line missing user_id field: %s", line)
	}
}

func TestRecoveryConvertsPanic(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Recovery(zerolog.Nop())(func(c echo.Context) error {
		panic("boom")
	})

	err := h(c)
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if he.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", he.Code)
	}
}

func TestAuditSkipsNonAPIPaths(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var recorded []AuditEntry
	recorder := AuditRecorderFunc(func(entry AuditEntry) error {
		recorded = append(recorded, entry)
		return nil
	})

	h := Audit(zerolog.Nop(), recorder)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(recorded) != 0 {
		t.Errorf("expected no audit entries for /healthz, got %d", len(recorded))
	}
}

func TestAuditRecordsAPIAccess(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/patients/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("request_id", "req-1")

	var recorded []AuditEntry
	recorder := AuditRecorderFunc(func(entry AuditEntry) error {
		recorded = append(recorded, entry)
		return nil
	})

	h := Audit(zerolog.Nop(), recorder)(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if len(recorded) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(recorded))
	}
	entry := recorded[0]
	if entry.Resource != "patients" {
		t.Errorf("resource = %q, want patients", entry.Resource)
	}
	if entry.Action != "delete" {
		t.Errorf("action = %q, want delete", entry.Action)
	}
	if entry.RequestID != "req-1" {
		t.Errorf("request_id = %q, want req-1", entry.RequestID)
	}
}

func TestHTTPMethodToAction(t *testing.T) {
	cases := map[string]string{
		http.MethodGet:    "read",
		http.MethodPost:   "create",
		http.MethodPut:    "update",
		http.MethodPatch:  "update",
		http.MethodDelete: "delete",
	}
	for method, want := range cases {
		if got := httpMethodToAction(method); got != want {
			t.Errorf("httpMethodToAction(%s) = %q, want %q", method, got, want)
		}
	}
}

func TestExtractResource(t *testing.T) {
	cases := map[string]string{
		"/api/v1/patients":          "patients",
		"/api/v1/patients/123":      "patients",
		"/api/v1/ipd/admissions/1":  "ipd",
		"/api/v1/":                  "unknown",
	}
	for path, want := range cases {
		if got := extractResource(path); got != want {
			t.Errorf("extractResource(%s) = %q, want %q", path, got, want)
		}
	}
}
