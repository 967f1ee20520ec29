package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthcheckHealthyServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","checks":{"store":"ok"}}`))
	}))
	defer srv.Close()

	healthcheckURL = srv.URL + "/healthz"
	defer func() { healthcheckURL = "" }()

	if err := runHealthcheck(healthcheckCmd, nil); err != nil {
		t.Fatalf("expected healthy, got %v", err)
	}
}
