package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aimspurefied/healer-ui-api/internal/service"
)

// DashboardServiceInterface defines the dashboard operations the handlers need.
type DashboardServiceInterface interface {
	Stats(ctx context.Context) (service.Stats, error)
	SMSBalance(ctx context.Context) (float64, error)
}

// DashboardHandlers serves the landing screen aggregates and the
// on-demand SMS gateway balance.
type DashboardHandlers struct {
	Svc    DashboardServiceInterface
	Logger *slog.Logger
}

// Stats returns the commerce summary counts.
// GET /api/dashboard/stats.
func (h *DashboardHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		WriteUpstreamError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"data": stats})
}

// SMSBalance fetches the gateway balance. It runs only on this explicit
// request, never on a timer.
// GET /api/sms/balance.
func (h *DashboardHandlers) SMSBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.Svc.SMSBalance(r.Context())
	if err != nil {
		WriteUpstreamError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"balance": balance})
}
