package httpx

import (
	"context"
	"net/http"
)

// HealthHandlers reports process liveness and redis reachability for
// readiness probes.
type HealthHandlers struct {
	// RedisPing checks the session store connection. Nil means no redis
	// is configured, which is reported as such rather than as a failure.
	RedisPing func(ctx context.Context) error
}

// Health serves GET/HEAD /healthz. A reachable (or unconfigured) redis
// yields 200; an unreachable one yields 503 so load balancers stop
// routing to this instance.
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	status, redisStatus := "ok", "ok"
	code := http.StatusOK

	switch {
	case h.RedisPing == nil:
		redisStatus = "unconfigured"
	case h.RedisPing(r.Context()) != nil:
		status, redisStatus = "degraded", "unreachable"
		code = http.StatusServiceUnavailable
	}

	if r.Method == http.MethodHead {
		w.WriteHeader(code)
		return
	}
	WriteJSON(w, code, map[string]string{"status": status, "redis": redisStatus})
}
