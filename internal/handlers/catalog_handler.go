package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vse-rental/storefront/internal/catalog"
)

type catalogReloader interface {
	Reload(ctx context.Context, loader catalog.Loader) error
	Stats() catalog.Stats
}

// CatalogHandler exposes catalog administration
type CatalogHandler struct {
	catalog catalogReloader
	loader  catalog.Loader
	logger  *slog.Logger
}

// NewCatalogHandler creates a handler reloading c from loader
func NewCatalogHandler(c catalogReloader, loader catalog.Loader, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: c,
		loader:  loader,
		logger:  logger,
	}
}

// Reload handles POST /api/catalog/reload. On failure the previous
// snapshot keeps serving.
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Reload(r.Context(), h.loader); err != nil {
		h.logger.Error("catalog reload failed", "source", h.loader.Source(), "error", err)

		var parseErr *catalog.ParseError
		if errors.As(err, &parseErr) {
			WriteErrorDetail(w, http.StatusUnprocessableEntity, "Catalog could not be parsed", err.Error(), h.logger)
			return
		}
		WriteErrorDetail(w, http.StatusBadGateway, "Catalog could not be fetched", err.Error(), h.logger)
		return
	}

	stats := h.catalog.Stats()
	h.logger.Info("catalog reloaded", "products", stats.Products, "categories", stats.Categories)
	WriteJSON(w, http.StatusOK, stats, h.logger)
}

// Stats handles GET /api/catalog/stats
func (h *CatalogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.catalog.Stats(), h.logger)
}
