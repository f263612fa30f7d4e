package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vse-rental/storefront/internal/mail"
	"github.com/vse-rental/storefront/internal/models"
)

type emailSender interface {
	Send(ctx context.Context, payload models.EmailPayload) error
}

// EmailHandler is the mail boundary: it turns a payload into an email
type EmailHandler struct {
	sender emailSender
	logger *slog.Logger
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(sender emailSender, logger *slog.Logger) *EmailHandler {
	return &EmailHandler{
		sender: sender,
		logger: logger,
	}
}

// SendEmail handles POST /api/send-email
// - 200: {message}
// - 400: missing name or phone, or a body that is not JSON
// - 500: {message, error} when composing, verifying or sending fails
func (h *EmailHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowed(w, r)
		return
	}

	var payload models.EmailPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		h.logger.Warn("failed to decode email payload", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	if err := h.sender.Send(r.Context(), payload); err != nil {
		if errors.Is(err, mail.ErrMissingFields) {
			WriteError(w, http.StatusBadRequest, "Missing required fields", h.logger)
			return
		}
		h.logger.Error("send error", "error", err)
		WriteErrorDetail(w, http.StatusInternalServerError, "Failed to send email", err.Error(), h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, models.MessageResponse{Message: "Email sent successfully"}, h.logger)
}
