package httpx

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/aimspurefied/healer-ui-api/internal/domain/auth"
	"github.com/aimspurefied/healer-ui-api/internal/ports"
	"github.com/aimspurefied/healer-ui-api/internal/resource"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Guard        AuthServiceInterface
	Provider     ports.AuthProvider // nil in credentials mode
	Registry     *resource.Registry
	Dashboard    DashboardServiceInterface
	RedisPing    func(ctx context.Context) error
	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router. Every /api route
// except auth and health sits behind the session guard; mutations
// additionally require the admin role.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Guard,
		Provider:     services.Provider,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	resourceHandlers := &ResourceHandlers{Registry: services.Registry, Logger: services.Logger}

	registerAuthRoutes(mux, authHandlers, services.Guard)
	registerResourceRoutes(mux, resourceHandlers, services.Guard)

	if services.Dashboard != nil {
		dashHandlers := &DashboardHandlers{Svc: services.Dashboard, Logger: services.Logger}
		requireAuth := RequireAuth(services.Guard)
		mux.Handle("GET /api/dashboard/stats", requireAuth(http.HandlerFunc(dashHandlers.Stats)))
		mux.Handle("GET /api/sms/balance", requireAuth(http.HandlerFunc(dashHandlers.SMSBalance)))
	}

	health := &HealthHandlers{RedisPing: services.RedisPing}
	mux.Handle("GET /healthz", http.HandlerFunc(health.Health))
	mux.Handle("HEAD /healthz", http.HandlerFunc(health.Health))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return Logging(logger)(Recover(logger)(mux))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, guard GuardInterface) {
	// The login page is public-only: authenticated users bounce straight
	// back to their destination.
	mux.Handle("GET /auth/login", RedirectIfAuthenticated(guard)(http.HandlerFunc(h.LoginPage)))
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerResourceRoutes(mux *http.ServeMux, h *ResourceHandlers, guard GuardInterface) {
	requireAuth := RequireAuthBrowser(guard)
	adminOnly := RequireRole(guard, domainauth.RoleAdmin)

	mux.Handle("GET /api/resources", requireAuth(http.HandlerFunc(h.Names)))
	mux.Handle("GET /api/shipments/rows", requireAuth(http.HandlerFunc(h.ShipmentRows)))

	mux.Handle("GET /api/{resource}", requireAuth(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/{resource}/export", requireAuth(http.HandlerFunc(h.Export)))
	mux.Handle("POST /api/{resource}/focus", requireAuth(http.HandlerFunc(h.Focus)))

	// Mutations are admin-only.
	mux.Handle("POST /api/{resource}", adminOnly(http.HandlerFunc(h.Create)))
	mux.Handle("PATCH /api/{resource}/{id}", adminOnly(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/{resource}/{id}", adminOnly(http.HandlerFunc(h.Delete)))
}
