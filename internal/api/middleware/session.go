package middleware

import (
	"context"
	"net/http"

	"github.com/registre/server/internal/config"
	"github.com/registre/server/internal/metrics"
	"github.com/registre/server/internal/session"
)

const sessionKey contextKey = "session"

// Sessions attaches a server-side session to every request, creating one
// (and setting the cookie) when the caller presents none or presents an
// identifier the store no longer knows.
func Sessions(store *session.Store, cfg config.SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *session.Session

			if cookie, err := r.Cookie(cfg.CookieName); err == nil {
				sess, _ = store.Lookup(cookie.Value)
			}

			if sess == nil {
				sess = store.Create()
				metrics.SessionsCreatedTotal.Inc()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    sess.ID(),
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom returns the session attached by Sessions, or nil when the
// middleware did not run.
func SessionFrom(r *http.Request) *session.Session {
	if r == nil {
		return nil
	}
	if sess, ok := r.Context().Value(sessionKey).(*session.Session); ok {
		return sess
	}
	return nil
}
