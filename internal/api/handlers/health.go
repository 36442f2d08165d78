package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/fairvalue/pkg/redis"
)

// StatusReporter reports a dependency state. *redis.Client satisfies it.
type StatusReporter interface {
	Status(ctx context.Context) string
}

// HealthHandler serves GET /health
type HealthHandler struct {
	service string
	redis   StatusReporter
}

// NewHealthHandler creates a health handler; rc may be nil
func NewHealthHandler(service string, rc StatusReporter) *HealthHandler {
	return &HealthHandler{service: service, redis: rc}
}

// Check answers 503 when Redis is configured but unreachable
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":  "ok",
		"service": h.service,
	}

	status := http.StatusOK
	if h.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		state := h.redis.Status(ctx)
		body["redis"] = state
		if state == redis.StatusUnavailable {
			body["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	respondJSON(w, status, body)
}
