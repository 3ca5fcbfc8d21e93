package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/wayfarer-travel/wayfarer-go/config"
	httpx "github.com/wayfarer-travel/wayfarer-go/internal/http"
	"github.com/wayfarer-travel/wayfarer-go/internal/observability/statsd"
	"github.com/wayfarer-travel/wayfarer-go/internal/service"
	"golang.org/x/sync/errgroup"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config  *config.AppConfig
	Auth    *service.AuthService
	Metrics statsd.Sink
	Logger  *slog.Logger

	// App serves the non-auth routes behind the access-control middleware.
	App http.Handler
}

// NewHTTPServer builds the HTTP server with the full middleware chain.
func NewHTTPServer(cfg HTTPServerConfig) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	router := httpx.NewRouter(httpx.RouterServices{
		Auth:         cfg.Auth,
		Routes:       appCfg.Routes.Table(),
		CookieDomain: appCfg.HTTP.CookieDomain,
		Metrics:      cfg.Metrics,
		Logger:       logger,
		App:          cfg.App,
	})

	// Order: Recover -> Logging -> Router (which applies access control)
	handler := httpx.Recover(logger)(httpx.Logging(logger)(router))

	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// RunHTTPServer serves until ctx is cancelled, then shuts down gracefully
// within the configured timeout.
func RunHTTPServer(ctx context.Context, server *http.Server, cfg HTTPServerConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	shutdownTimeout := 10 * time.Second
	if cfg.Config != nil && cfg.Config.HTTP.ShutdownTimeout > 0 {
		shutdownTimeout = cfg.Config.HTTP.ShutdownTimeout
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("HTTP server stopped")
		return nil
	})

	return g.Wait()
}
