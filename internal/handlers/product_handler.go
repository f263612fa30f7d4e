package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vse-rental/storefront/internal/models"
	"github.com/vse-rental/storefront/internal/repository"
	"github.com/vse-rental/storefront/internal/service"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ProductView is a product as shown in one language. Price is null when
// the sheet held no usable value.
type ProductView struct {
	ID           string               `json:"id"`
	Category     string               `json:"category"`
	ImageURL     string               `json:"imageUrl"`
	VideoURL     string               `json:"videoUrl,omitempty"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Price        *string              `json:"price"`
	Names        models.LocalizedText `json:"names"`
	Descriptions models.LocalizedText `json:"descriptions"`
}

func newProductView(p models.Product, lang models.Language) ProductView {
	v := ProductView{
		ID:           p.ID,
		Category:     p.Category,
		ImageURL:     p.ImageURL,
		VideoURL:     p.VideoURL,
		Name:         p.DisplayName(lang),
		Description:  p.Description.In(lang, ""),
		Names:        p.Name,
		Descriptions: p.Description,
	}
	if p.Price.Valid {
		price := p.Price.Decimal.StringFixed(2)
		v.Price = &price
	}
	return v
}

// ListProducts handles GET /api/products?category=&q=&lang=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	lang := models.ParseLanguage(query.Get("lang"))

	products, err := h.service.ListProducts(ctx, service.ProductFilter{
		Category: query.Get("category"),
		Query:    query.Get("q"),
	})
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p, lang))
	}
	WriteJSON(w, http.StatusOK, views, h.logger)
}

// GetProduct handles GET /api/products/{productId}
// - 200: successful operation
// - 404: Product not found
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := chi.URLParam(r, "productId")
	lang := models.ParseLanguage(r.URL.Query().Get("lang"))

	if productID == "" {
		h.logger.Warn("product ID is required")
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	product, err := h.service.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			h.logger.Info("product not found", "productId", productID)
			WriteError(w, http.StatusNotFound, "Product not found", h.logger)
			return
		}

		h.logger.Error("failed to get product", "productId", productID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, newProductView(*product, lang), h.logger)
}

// ListCategories handles GET /api/categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, categories, h.logger)
}
