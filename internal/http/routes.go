package httpx

// Package httpx wires the HTTP surface of the back office: auth endpoints,
// the session snapshot endpoint, health checks, and the access-control
// middleware that gates every other route.

import (
	"log/slog"
	"net/http"

	domainauth "github.com/wayfarer-travel/wayfarer-go/internal/domain/auth"
	"github.com/wayfarer-travel/wayfarer-go/internal/observability/statsd"
)

// RouterServices holds the collaborators needed by the HTTP router.
type RouterServices struct {
	Auth         AuthServiceInterface
	Routes       domainauth.RouteTable
	CookieDomain string
	Metrics      statsd.Sink
	Logger       *slog.Logger

	// App serves everything that is not an auth or health endpoint, behind
	// the access-control middleware. Nil means a plain 404 handler.
	App http.Handler
}

// NewRouter creates and configures the HTTP router. Every route, including
// the auth endpoints themselves, passes through the access-control
// middleware; the auth endpoints simply classify as default routes and are
// always allowed.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	registerAuthRoutes(mux, authHandlers)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	app := services.App
	if app == nil {
		app = http.NotFoundHandler()
	}
	mux.Handle("/", app)

	return AccessControl(AccessControlConfig{
		Table:   services.Routes,
		Auth:    services.Auth,
		Metrics: services.Metrics,
	})(mux)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/session", h.Session)
}
