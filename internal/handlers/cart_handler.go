package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vse-rental/storefront/internal/middleware"
	"github.com/vse-rental/storefront/internal/models"
	"github.com/vse-rental/storefront/internal/service"
)

// CartHandler serves the cart of the current session
type CartHandler struct {
	carts    *service.CartService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		validate: service.NewValidator(),
		logger:   logger,
	}
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cartID := middleware.CartIDFromContext(r.Context())

	cart, err := h.carts.LoadCart(r.Context(), cartID)
	if err != nil {
		h.writeCartError(w, "load", cartID, err)
		return
	}

	WriteJSON(w, http.StatusOK, models.NewCartResponse(cart), h.logger)
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cartID := middleware.CartIDFromContext(r.Context())

	var req models.AddItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("failed to decode add item request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		WriteErrorDetail(w, http.StatusBadRequest, "Invalid request body", err.Error(), h.logger)
		return
	}

	cart, err := h.carts.AddToCart(r.Context(), cartID, req.ProductID, models.ParseLanguage(req.Lang))
	if err != nil {
		h.writeCartError(w, "add to", cartID, err)
		return
	}

	h.logger.Debug("item added to cart", "cart_id", cartID, "productId", req.ProductID)
	WriteJSON(w, http.StatusOK, models.NewCartResponse(cart), h.logger)
}

// RemoveItem handles DELETE /api/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID := middleware.CartIDFromContext(r.Context())
	productID := chi.URLParam(r, "productId")

	cart, err := h.carts.RemoveFromCart(r.Context(), cartID, productID)
	if err != nil {
		h.writeCartError(w, "remove from", cartID, err)
		return
	}

	WriteJSON(w, http.StatusOK, models.NewCartResponse(cart), h.logger)
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cartID := middleware.CartIDFromContext(r.Context())

	if err := h.carts.Clear(r.Context(), cartID); err != nil {
		h.writeCartError(w, "clear", cartID, err)
		return
	}

	WriteJSON(w, http.StatusOK, models.NewCartResponse(&models.Cart{ID: cartID}), h.logger)
}

func (h *CartHandler) writeCartError(w http.ResponseWriter, action, cartID string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidProduct):
		WriteError(w, http.StatusNotFound, "Product not found", h.logger)
	case errors.Is(err, service.ErrMissingCartID):
		WriteError(w, http.StatusBadRequest, "Cart session is required", h.logger)
	default:
		h.logger.Error("failed to "+action+" cart", "cart_id", cartID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
	}
}
