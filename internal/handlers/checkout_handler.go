package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vse-rental/storefront/internal/dispatch"
	"github.com/vse-rental/storefront/internal/middleware"
	"github.com/vse-rental/storefront/internal/models"
	"github.com/vse-rental/storefront/internal/service"
)

type checkouter interface {
	Checkout(ctx context.Context, cartID string, contact models.Contact) (models.Submission, error)
}

// CheckoutHandler submits the current cart, or a bare callback request
// when the cart is empty
type CheckoutHandler struct {
	checkout checkouter
	logger   *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkout checkouter, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		logger:   logger,
	}
}

// Checkout handles POST /api/checkout
// - 200: submission ingested and mailed
// - 400: invalid body or contact details
// - 502: the sheet or mail endpoint failed
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	cartID := middleware.CartIDFromContext(r.Context())

	var contact models.Contact
	if err := decodeJSON(w, r, &contact); err != nil {
		h.logger.Warn("failed to decode checkout request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	sub, err := h.checkout.Checkout(r.Context(), cartID, contact)
	if err != nil {
		var (
			validationErr *service.ValidationError
			transportErr  *dispatch.TransportError
		)
		switch {
		case errors.As(err, &validationErr):
			WriteErrorDetail(w, http.StatusBadRequest, "Validation failed", validationErr.Error(), h.logger)
		case errors.As(err, &transportErr):
			WriteErrorDetail(w, http.StatusBadGateway, "Failed to send request", transportErr.Message, h.logger)
		case errors.Is(err, service.ErrMissingCartID):
			WriteError(w, http.StatusBadRequest, "Cart session is required", h.logger)
		default:
			h.logger.Error("checkout failed", "cart_id", cartID, "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		}
		return
	}

	WriteJSON(w, http.StatusOK, models.CheckoutResponse{
		Message: "Request sent successfully",
		OrderID: sub.OrderID,
		Kind:    sub.Kind,
	}, h.logger)
}
