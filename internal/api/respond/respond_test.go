package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOKWithData(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, http.StatusOK, "Success", map[string]any{"id": 1})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "Success" {
		t.Errorf("unexpected message %v", body["message"])
	}
	if _, ok := body["error"]; ok {
		t.Error("success envelope must not carry an error field")
	}
}

func TestOKEmptyListIsNotOmitted(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, http.StatusOK, "Success", []int{})

	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("expected empty data array in body, got %s", rec.Body.String())
	}
}

func TestErrorHidesDetailsInProduction(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/persons", nil)

	rec := httptest.NewRecorder()
	Error(rec, req, http.StatusInternalServerError, "Erreur serveur", errDetail("database exploded"), "production")

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "Erreur serveur" {
		t.Errorf("unexpected error %v", body["error"])
	}
	if _, ok := body["details"]; ok {
		t.Error("details must be hidden in production")
	}
}

func TestErrorShowsDetailsInDevelopment(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/persons", nil)

	rec := httptest.NewRecorder()
	Error(rec, req, http.StatusInternalServerError, "Erreur serveur", errDetail("database exploded"), "development")

	if !strings.Contains(rec.Body.String(), "database exploded") {
		t.Errorf("expected diagnostic detail in development, got %s", rec.Body.String())
	}
}

type errDetail string

func (e errDetail) Error() string { return string(e) }
