package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/registre/server/internal/api/respond"
	"github.com/registre/server/internal/auth"
	"github.com/registre/server/internal/session"
)

const identityClaimsKey contextKey = "identityClaims"

// Identity resolves the caller's identity assertion — from the session
// established at login, or from an Authorization bearer header — and makes
// the validated claims available to downstream guards. It never rejects a
// request; only RequireIdentity does, on routes that opt in.
func Identity(manager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				next.ServeHTTP(w, r)
				return
			}

			token := ""
			if sess := SessionFrom(r); sess != nil {
				token, _ = sess.Get(session.IdentityTokenKey)
			}
			if token == "" {
				if headerToken, err := auth.TokenFromHeader(r.Header.Get("Authorization")); err == nil {
					token = headerToken
				}
			}
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				// An invalid or expired assertion is treated as anonymous.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), identityClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityClaims returns the validated claims attached by Identity, or nil
// for anonymous requests.
func IdentityClaims(r *http.Request) *auth.Claims {
	if r == nil {
		return nil
	}
	if claims, ok := r.Context().Value(identityClaimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

// RequireIdentity guards a route: anonymous callers get a 401 envelope, or
// a redirect to the login page when they ask for HTML.
func RequireIdentity(env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IdentityClaims(r) == nil {
				if strings.Contains(r.Header.Get("Accept"), "text/html") {
					http.Redirect(w, r, "/auth/login", http.StatusFound)
					return
				}
				respond.Error(w, r, http.StatusUnauthorized, "Authentification requise.", auth.ErrMissingToken, env)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
