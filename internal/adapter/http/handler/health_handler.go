package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

// Ping calls f.
func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	postgres Pinger
	redis    Pinger
}

// NewHealthHandler creates a new HealthHandler. A nil redis pinger means the
// service runs without a cache and readiness skips it.
func NewHealthHandler(postgres, redis Pinger) *HealthHandler {
	return &HealthHandler{
		postgres: postgres,
		redis:    redis,
	}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Check PostgreSQL
	if err := h.postgres.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "postgres unhealthy", err.Error())
		return
	}

	status := map[string]string{
		"status":   "ready",
		"postgres": "ok",
		"redis":    "disabled",
	}

	// Check Redis
	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unhealthy", err.Error())
			return
		}
		status["redis"] = "ok"
	}

	writeJSON(w, http.StatusOK, status)
}
