package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/registre/server/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func newLimitedHandler(t *testing.T, cfg config.RateLimitConfig) http.Handler {
	t.Helper()
	limiter := NewRateLimiter(cfg)
	t.Cleanup(limiter.Stop)
	return limiter.Middleware(okHandler())
}

func TestRateLimit_AllowsFullQuota(t *testing.T) {
	handler := newLimitedHandler(t, config.RateLimitConfig{Requests: 100, Window: 15 * time.Minute})

	for i := 0; i < 100; i++ {
		req := httptest.NewRequest(http.MethodGet, "/persons", nil)
		req.RemoteAddr = "192.168.1.100:12345"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected status 200, got %d", i+1, rec.Code)
		}
	}
}

func TestRateLimit_RejectsBeyondQuota(t *testing.T) {
	handler := newLimitedHandler(t, config.RateLimitConfig{Requests: 100, Window: 15 * time.Minute})

	clientIP := "192.168.1.101:54321"
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest(http.MethodGet, "/persons", nil)
		req.RemoteAddr = clientIP
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	// The 101st request inside the window is rejected.
	req := httptest.NewRequest(http.MethodGet, "/persons", nil)
	req.RemoteAddr = clientIP
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on 429")
	}
}

func TestRateLimit_SpacedRequestsDoNotStretchTheQuota(t *testing.T) {
	// Spacing requests inside the window must not earn extra budget: the
	// counter is fixed to the window, not a refilling bucket.
	handler := newLimitedHandler(t, config.RateLimitConfig{Requests: 3, Window: 300 * time.Millisecond})

	clientIP := "192.168.1.103:2222"
	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		if i > 0 {
			time.Sleep(50 * time.Millisecond)
		}
		req := httptest.NewRequest(http.MethodGet, "/persons", nil)
		req.RemoteAddr = clientIP
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusOK,
		http.StatusTooManyRequests, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("spaced request %d: expected %d, got %d (all: %v)", i+1, want[i], codes[i], codes)
		}
	}
}

func TestRateLimit_RecoversAfterWindow(t *testing.T) {
	handler := newLimitedHandler(t, config.RateLimitConfig{Requests: 2, Window: 100 * time.Millisecond})

	clientIP := "192.168.1.102:1111"
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/persons", nil)
		req.RemoteAddr = clientIP
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest(http.MethodGet, "/persons", nil)
	req.RemoteAddr = clientIP
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once quota is spent, got %d", rec.Code)
	}

	time.Sleep(120 * time.Millisecond)

	req = httptest.NewRequest(http.MethodGet, "/persons", nil)
	req.RemoteAddr = clientIP
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after the window elapsed, got %d", rec.Code)
	}
}

func TestRateLimit_KeysAreIndependentPerClient(t *testing.T) {
	handler := newLimitedHandler(t, config.RateLimitConfig{Requests: 1, Window: 15 * time.Minute})

	first := httptest.NewRequest(http.MethodGet, "/persons", nil)
	first.RemoteAddr = "10.0.0.1:1000"
	handler.ServeHTTP(httptest.NewRecorder(), first)

	blocked := httptest.NewRequest(http.MethodGet, "/persons", nil)
	blocked.RemoteAddr = "10.0.0.1:1000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, blocked)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for exhausted client, got %d", rec.Code)
	}

	other := httptest.NewRequest(http.MethodGet, "/persons", nil)
	other.RemoteAddr = "10.0.0.2:1000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a different client, got %d", rec.Code)
	}
}

func TestRateLimit_HealthAndMetricsExempt(t *testing.T) {
	handler := newLimitedHandler(t, config.RateLimitConfig{Requests: 1, Window: 15 * time.Minute})

	for i := 0; i < 10; i++ {
		for _, path := range []string{"/healthz", "/metrics"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.RemoteAddr = "10.0.0.3:1000"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected %s to be exempt, got %d", path, rec.Code)
			}
		}
	}
}

func TestRateLimit_StopIsIdempotent(t *testing.T) {
	limiter := NewRateLimiter(config.RateLimitConfig{Requests: 1, Window: time.Minute})
	limiter.Stop()
	limiter.Stop()
}

func TestRateLimit_TrustsForwardedForFromTrustedProxyOnly(t *testing.T) {
	handler := newLimitedHandler(t, config.RateLimitConfig{
		Requests:          1,
		Window:            15 * time.Minute,
		TrustedProxyCIDRs: []string{"10.0.0.0/8"},
	})

	// Two requests through the trusted proxy for two different clients
	// must not share a counter.
	for _, client := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodGet, "/persons", nil)
		req.RemoteAddr = "10.1.2.3:443"
		req.Header.Set("X-Forwarded-For", client)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("client %s: expected 200, got %d", client, rec.Code)
		}
	}

	// From an untrusted peer the header is ignored: both requests land in
	// the peer's own counter and the second is rejected.
	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/persons", nil)
		req.RemoteAddr = "198.51.100.9:443"
		req.Header.Set("X-Forwarded-For", "1.2.3.4")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("untrusted request %d: expected %d, got %d", i+1, want, rec.Code)
		}
	}
}
