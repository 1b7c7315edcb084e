package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aimspurefied/healer-ui-api/config"
	"github.com/aimspurefied/healer-ui-api/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger(config.ObservabilityConfig{})
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger = bootstrap.InitLogger(cfg.Observability)

	logger.InfoContext(ctx, "starting healer-ui-api",
		"auth_mode", cfg.Auth.Mode,
		"upstream", cfg.Upstream.BaseURL,
		"dev", cfg.IsDev,
	)

	redisClient, err := bootstrap.ConnectRedis(cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	guard, provider, err := bootstrap.BuildSessionGuard(bootstrap.AuthDeps{
		Auth:        cfg.Auth,
		Redis:       cfg.Redis,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: &cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	server := bootstrap.NewHTTPServer(&bootstrap.HTTPServerDeps{
		Config:   &cfg,
		Guard:    guard,
		Provider: provider,
		Redis:    redisClient,
		Services: services,
		Logger:   logger,
	})
	return bootstrap.RunServerWithShutdown(ctx, server, &cfg, logger)
}
