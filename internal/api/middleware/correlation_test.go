package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestCorrelationID_HonorsValidIncomingID(t *testing.T) {
	incoming := uuid.NewString()
	var seen string

	handler := CorrelationID(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/persons", nil)
	req.Header.Set("X-Request-ID", incoming)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != incoming {
		t.Errorf("expected context id %s, got %s", incoming, seen)
	}
	if got := rec.Header().Get("X-Request-ID"); got != incoming {
		t.Errorf("expected echoed header %s, got %s", incoming, got)
	}
}

func TestCorrelationID_ReplacesNonUUIDHeader(t *testing.T) {
	handler := CorrelationID(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/persons", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	got := rec.Header().Get("X-Request-ID")
	if got == "not-a-uuid" {
		t.Fatal("expected a spoofed id to be replaced")
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("expected a generated UUID, got %q", got)
	}
}

func TestRequestIDFrom_WithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/persons", nil)
	if got := RequestIDFrom(req.Context()); got != "" {
		t.Errorf("expected empty id, got %q", got)
	}
}
