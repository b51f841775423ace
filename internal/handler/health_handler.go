package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Raymond9734/pizza-customer-console/internal/queue"
)

// Pinger checks that the customer API answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	api         Pinger
	queueClient queue.Client
	logger      *slog.Logger
}

// NewHealthHandler creates a new health handler. queueClient may be nil.
func NewHealthHandler(api Pinger, queueClient queue.Client, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		api:         api,
		queueClient: queueClient,
		logger:      logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string            `json:"status"`
	Services    map[string]string `json:"services"`
	QueueLength *int64            `json:"queueLength,omitempty"`
}

// Health handles GET /health. The export queue is optional, so only the
// customer API decides overall health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:   "healthy",
		Services: make(map[string]string),
	}

	if err := h.api.Ping(ctx); err != nil {
		h.logger.Error("customer API health check failed", slog.String("error", err.Error()))
		response.Status = "unhealthy"
		response.Services["customer_api"] = "unhealthy"
	} else {
		response.Services["customer_api"] = "healthy"
	}

	if h.queueClient != nil {
		if err := h.queueClient.Health(ctx); err != nil {
			h.logger.Warn("queue health check failed", slog.String("error", err.Error()))
			response.Services["queue"] = "unhealthy"
		} else {
			response.Services["queue"] = "healthy"
			if n, err := h.queueClient.QueueLength(ctx); err == nil {
				response.QueueLength = &n
			}
		}
	} else {
		response.Services["queue"] = "not_configured"
	}

	if response.Status == "healthy" {
		respondSuccess(w, response)
	} else {
		respondJSON(w, http.StatusServiceUnavailable, response)
	}
}
