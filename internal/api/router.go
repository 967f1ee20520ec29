// Package api wires the middleware chain and the route table. Middleware
// order is fixed: body size cap, session, identity, CORS, then rate
// limiting; the identity guard applies only to routes that opt in.
package api

import (
	"database/sql"
	"net/http"
	"sort"
	"strings"

	"github.com/registre/server/internal/api/handlers"
	"github.com/registre/server/internal/api/middleware"
	"github.com/registre/server/internal/auth"
	"github.com/registre/server/internal/config"
	"github.com/registre/server/internal/domain/persons"
	"github.com/registre/server/internal/metrics"
	"github.com/registre/server/internal/session"
	"github.com/registre/server/internal/storage"
	"github.com/rs/zerolog"
)

// Dependencies are the process-wide singletons the router composes. The
// persistence adapter is constructed once at startup and injected here.
type Dependencies struct {
	Repo        storage.Repository
	DB          *sql.DB
	Manager     *auth.JWTManager
	Credentials *auth.Credentials
}

type Router struct {
	Handler  http.Handler
	Sessions *session.Store
	Limiter  *middleware.RateLimiter
}

// Stop shuts down the router's background goroutines (session sweep and
// rate-limit cleanup).
func (router *Router) Stop() {
	router.Limiter.Stop()
	router.Sessions.Stop()
}

func NewRouter(cfg config.Config, logger zerolog.Logger, deps Dependencies) *Router {
	service := persons.NewService(deps.Repo.Persons(), logger)
	personsHandler := handlers.NewPersonsHandler(service, cfg.Environment)
	authHandler := handlers.NewAuthHandler(deps.Manager, deps.Credentials, cfg.Environment)

	mux := http.NewServeMux()
	mux.Handle("/{$}", handlers.Home())
	mux.Handle("/healthz", handlers.Healthz(deps.DB))
	mux.Handle("/metrics", metrics.Handler())

	mux.Handle("/persons", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(personsHandler.List),
		http.MethodPost: http.HandlerFunc(personsHandler.Create),
	}))
	mux.Handle("/persons/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(personsHandler.Get),
		http.MethodPut:    http.HandlerFunc(personsHandler.Update),
		http.MethodDelete: http.HandlerFunc(personsHandler.Delete),
	}))

	mux.Handle("/auth/login", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Login),
	}))
	mux.Handle("/auth/logout", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Logout),
	}))

	guard := middleware.RequireIdentity(cfg.Environment)
	mux.Handle("/secure", methodMux(map[string]http.Handler{
		http.MethodGet: guard(handlers.Secure()),
	}))

	sessions := session.NewStore(cfg.Session.TTL)
	limiter := middleware.NewRateLimiter(cfg.RateLimit)

	var handler http.Handler = mux
	handler = limiter.Middleware(handler)
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	handler = middleware.Identity(deps.Manager)(handler)
	handler = middleware.Sessions(sessions, cfg.Session)(handler)
	handler = middleware.RequestSize(middleware.DefaultMaxBodySize)(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)

	return &Router{Handler: handler, Sessions: sessions, Limiter: limiter}
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
