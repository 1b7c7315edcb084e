package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/aimspurefied/healer-ui-api/config"
	"github.com/aimspurefied/healer-ui-api/internal/adapters/authroles"
	"github.com/aimspurefied/healer-ui-api/internal/adapters/oidc"
	redisadapter "github.com/aimspurefied/healer-ui-api/internal/adapters/redis"
	"github.com/aimspurefied/healer-ui-api/internal/adapters/staticauth"
	"github.com/aimspurefied/healer-ui-api/internal/ports"
	"github.com/aimspurefied/healer-ui-api/internal/service"
)

// AuthDeps contains dependencies for building the session guard.
type AuthDeps struct {
	Auth        config.AuthConfig
	Redis       config.RedisConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildSessionGuard constructs the session guard for the configured auth
// mode. The returned provider is nil in credentials mode; in oidc mode
// it drives the redirect flow while the guard keeps owning sessions.
func BuildSessionGuard(deps AuthDeps) (*service.SessionGuard, ports.AuthProvider, error) {
	if deps.RedisClient == nil {
		return nil, nil, fmt.Errorf("session guard: redis client is required")
	}

	sessionStore := redisadapter.NewSessionStoreWithTTL(deps.RedisClient, deps.Redis.SessionTTL)
	roleMapper := authroles.NewGroupRoleMapper(deps.Auth.AdminGroup, deps.Auth.StaffGroup)

	switch deps.Auth.Mode {
	case config.AuthModeOIDC:
		provider, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     deps.Auth.OIDC.ClientID,
			ClientSecret: deps.Auth.OIDC.ClientSecret,
			RedirectURL:  deps.Auth.OIDC.RedirectURL,
			Scope:        deps.Auth.OIDC.Scope,
			DiscoveryURL: deps.Auth.OIDC.DiscoveryURL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("build oidc provider: %w", err)
		}

		guard, err := service.NewSessionGuard(service.SessionGuardOptions{
			Sessions: sessionStore,
			Roles:    roleMapper,
			Logger:   deps.Logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return guard, provider, nil

	default:
		authenticator, err := staticauth.New(staticauth.Config{
			Email:    deps.Auth.Credentials.Email,
			Password: deps.Auth.Credentials.Password,
			Name:     deps.Auth.Credentials.Name,
			Group:    deps.Auth.Credentials.Group,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("build static authenticator: %w", err)
		}

		guard, err := service.NewSessionGuard(service.SessionGuardOptions{
			Authenticator: authenticator,
			Sessions:      sessionStore,
			Roles:         roleMapper,
			Logger:        deps.Logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return guard, nil, nil
	}
}
