package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/registre/server/internal/api/respond"
	"github.com/registre/server/internal/config"
	"github.com/registre/server/internal/metrics"
)

// RateLimiter rejects clients exceeding the configured quota per window.
// Counting is fixed-window: each client key carries a counter anchored to
// the instant its window opened. Once the counter passes the quota every
// further request answers 429 for the remainder of the window, however
// the requests are spaced; when the window rolls over the counter resets.
// Health and metrics endpoints are exempt.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*clientWindow

	requests          int
	window            time.Duration
	trustedProxyCIDRs []string

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

type clientWindow struct {
	count       int
	windowStart time.Time
	lastSeen    time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	limiter := &RateLimiter{
		windows:           make(map[string]*clientWindow),
		requests:          cfg.Requests,
		window:            cfg.Window,
		trustedProxyCIDRs: cfg.TrustedProxyCIDRs,
		stopCleanup:       make(chan struct{}),
	}

	// Per-key entries are dropped once idle for a full window to keep the
	// map bounded under churny client populations.
	go limiter.cleanupLoop()

	return limiter
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(l.window.Seconds()))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		if l.requests <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		if !l.allow(clientKey(r, l.trustedProxyCIDRs)) {
			metrics.RateLimitedTotal.Inc()
			w.Header().Set("Retry-After", retryAfter)
			respond.Error(w, r, http.StatusTooManyRequests,
				"Trop de requêtes effectuées depuis cette IP, veuillez réessayer après 15 minutes.",
				nil, "")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow counts the request against the key's current window, opening a
// fresh window when the previous one has elapsed.
func (l *RateLimiter) allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.windows[key]
	if !ok {
		entry = &clientWindow{windowStart: now}
		l.windows[key] = entry
	} else if now.Sub(entry.windowStart) >= l.window {
		entry.windowStart = now
		entry.count = 0
	}

	entry.lastSeen = now
	entry.count++
	return entry.count <= l.requests
}

func (l *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCleanup:
			return
		}
	}
}

func (l *RateLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, entry := range l.windows {
		if now.Sub(entry.lastSeen) > l.window {
			delete(l.windows, key)
		}
	}
}

// Stop shuts down the cleanup goroutine. Safe to call more than once.
func (l *RateLimiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopCleanup)
	})
}

// clientKey extracts the client identifier for rate limiting, trusting
// forwarding headers only when the immediate peer is a configured proxy.
func clientKey(r *http.Request, trustedProxyCIDRs []string) string {
	if r == nil {
		return ""
	}

	remoteIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		remoteIP = host
	}

	if isTrustedProxy(remoteIP, trustedProxyCIDRs) {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			parts := strings.Split(forwarded, ",")
			if len(parts) > 0 {
				return strings.TrimSpace(parts[0])
			}
		}
		if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
			return strings.TrimSpace(realIP)
		}
	}

	return remoteIP
}

func isTrustedProxy(ip string, trustedCIDRs []string) bool {
	if len(trustedCIDRs) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidrStr := range trustedCIDRs {
		_, cidr, err := net.ParseCIDR(cidrStr)
		if err != nil {
			continue
		}
		if cidr.Contains(parsedIP) {
			return true
		}
	}

	return false
}
