package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/aimspurefied/healer-ui-api/config"
	"github.com/aimspurefied/healer-ui-api/internal/resource"
	"github.com/aimspurefied/healer-ui-api/internal/service"
	"github.com/aimspurefied/healer-ui-api/internal/upstream"
)

// ServiceContainer holds the constructed application services.
type ServiceContainer struct {
	Upstream  *upstream.Client
	Balance   *upstream.BalanceClient
	Registry  *resource.Registry
	Dashboard *service.DashboardService
}

// ServiceDeps contains dependencies for building services.
type ServiceDeps struct {
	Config *config.AppConfig
	Logger *slog.Logger
}

// NewServices wires the upstream client, the per-collection controllers,
// and the dashboard aggregator.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	cfg := deps.Config

	client, err := upstream.NewClient(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
		Logger:  deps.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build upstream client: %w", err)
	}

	registry, err := resource.NewRegistry(client, deps.Logger)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build resource registry: %w", err)
	}

	var balance *upstream.BalanceClient
	if cfg.Upstream.SMSBalanceURL != "" {
		balance, err = upstream.NewBalanceClient(cfg.Upstream.SMSBalanceURL, nil)
		if err != nil {
			return ServiceContainer{}, fmt.Errorf("build balance client: %w", err)
		}
	}

	dashboard, err := service.NewDashboardService(service.DashboardOptions{
		Registry: registry,
		Balance:  balance,
		Logger:   deps.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build dashboard service: %w", err)
	}

	return ServiceContainer{
		Upstream:  client,
		Balance:   balance,
		Registry:  registry,
		Dashboard: dashboard,
	}, nil
}
