package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vse-rental/storefront/internal/catalog"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

type catalogStats interface {
	Stats() catalog.Stats
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	catalog     catalogStats
	cartBackend string
	logger      *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(catalog catalogStats, cartBackend string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		catalog:     catalog,
		cartBackend: cartBackend,
		logger:      logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string        `json:"status"`
	Timestamp   time.Time     `json:"timestamp"`
	Version     string        `json:"version"`
	Catalog     catalog.Stats `json:"catalog"`
	CartBackend string        `json:"cartBackend"`
}

// ServeHTTP handles health check requests. An empty catalog reports
// "degraded" but still answers 200.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats := h.catalog.Stats()

	status := "healthy"
	if stats.Products == 0 {
		status = "degraded"
	}

	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:      status,
		Timestamp:   time.Now().UTC(),
		Version:     Version,
		Catalog:     stats,
		CartBackend: h.cartBackend,
	}, h.logger)
}
