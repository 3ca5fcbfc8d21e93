package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	domainauth "github.com/wayfarer-travel/wayfarer-go/internal/domain/auth"
	"github.com/wayfarer-travel/wayfarer-go/internal/observability/metrics"
	"github.com/wayfarer-travel/wayfarer-go/internal/observability/statsd"
)

// SessionCookieName is the cookie carrying the opaque session identifier.
const SessionCookieName = "session_id"

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AccessControlConfig groups the collaborators of the access-control middleware.
type AccessControlConfig struct {
	Table   domainauth.RouteTable
	Auth    AuthServiceInterface
	Metrics statsd.Sink
}

// AccessControl returns the request gatekeeper: every request is classified
// against the route table, its session (if any) is re-validated against the
// live account row, and the resulting verdict either lets the request through
// or redirects. Validation happens on every request; nothing is cached
// between requests, so a deactivated account loses access on its very next
// request.
func AccessControl(cfg AccessControlConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			category := cfg.Table.Classify(r.URL.Path)

			loggedIn, snapshot := resolveSnapshot(r, cfg.Auth)
			var validity domainauth.Validity
			if snapshot != nil {
				validity = snapshot.Validity()
			}

			verdict := domainauth.Decide(category, loggedIn, validity, r.URL.RequestURI())

			metrics.EmitAuthzDecision(cfg.Metrics, metrics.AuthzMetric{
				Category: category,
				Outcome:  metrics.OutcomeForVerdict(verdict),
				Duration: time.Since(start),
			})

			if !verdict.Allowed() {
				http.Redirect(w, r, verdict.RedirectURL, http.StatusSeeOther)
				return
			}

			if snapshot != nil {
				r = r.WithContext(SetSnapshotInContext(r.Context(), snapshot))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolveSnapshot materializes the session snapshot for the request, if a
// session cookie is present and the session row exists. loggedIn reports row
// existence only; the snapshot itself may still carry a validity error.
func resolveSnapshot(r *http.Request, authSvc AuthServiceInterface) (bool, *domainauth.SessionSnapshot) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return false, nil
	}

	snapshot, err := authSvc.ResolveSession(r.Context(), cookie.Value)
	if err != nil {
		// Missing or expired session row: the caller is simply not logged in.
		return false, nil
	}
	return true, snapshot
}
