package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aimspurefied/healer-ui-api/config"
	httpx "github.com/aimspurefied/healer-ui-api/internal/http"
	"github.com/aimspurefied/healer-ui-api/internal/ports"
	"github.com/aimspurefied/healer-ui-api/internal/service"
)

// HTTPServerDeps contains everything needed to build the HTTP server.
type HTTPServerDeps struct {
	Config   *config.AppConfig
	Guard    *service.SessionGuard
	Provider ports.AuthProvider
	Redis    redis.UniversalClient
	Services ServiceContainer
	Logger   *slog.Logger
}

// NewHTTPServer builds the configured HTTP server around the router.
func NewHTTPServer(deps *HTTPServerDeps) *http.Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var redisPing func(ctx context.Context) error
	if deps.Redis != nil {
		redisPing = func(ctx context.Context) error { return deps.Redis.Ping(ctx).Err() }
	}

	handler := httpx.NewRouter(httpx.RouterServices{
		Guard:        deps.Guard,
		Provider:     deps.Provider,
		Registry:     deps.Services.Registry,
		Dashboard:    deps.Services.Dashboard,
		RedisPing:    redisPing,
		CookieDomain: deps.Config.HTTP.CookieDomain,
		Logger:       logger,
	})

	return &http.Server{
		Addr:              deps.Config.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// RunServerWithShutdown serves until the context is cancelled or a
// SIGINT/SIGTERM arrives, then drains within the configured timeout.
func RunServerWithShutdown(ctx context.Context, server *http.Server, cfg *config.AppConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
