package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vse-rental/storefront/internal/clients"
)

type forwarder interface {
	Forward(ctx context.Context, jsonBody []byte) (int, []byte, error)
}

// SubmitHandler proxies raw submissions to the spreadsheet endpoint
type SubmitHandler struct {
	upstream forwarder
	logger   *slog.Logger
}

// NewSubmitHandler creates a new submit proxy handler
func NewSubmitHandler(upstream forwarder, logger *slog.Logger) *SubmitHandler {
	return &SubmitHandler{
		upstream: upstream,
		logger:   logger,
	}
}

// Submit handles POST /api/submit. The body is forwarded verbatim and a
// successful upstream JSON answer is returned with 200. Any failure,
// including a non-2xx status or a non JSON answer, is a 500
// {message: "Error", error}.
func (h *SubmitHandler) Submit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		WriteErrorDetail(w, http.StatusBadRequest, "Invalid request body", err.Error(), h.logger)
		return
	}
	if !json.Valid(body) {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	status, respBody, err := h.upstream.Forward(r.Context(), body)
	if err != nil {
		h.logger.Error("submit proxy failed", "error", err)
		WriteErrorDetail(w, http.StatusInternalServerError, "Error", err.Error(), h.logger)
		return
	}

	h.logger.Info("submit proxied", "upstream_status", status)

	if status < 200 || status >= 300 {
		detail := clients.UpstreamMessage(respBody)
		if detail == "" {
			detail = fmt.Sprintf("upstream returned status %d", status)
		}
		h.logger.Error("submit proxy got upstream failure", "upstream_status", status, "error", detail)
		WriteErrorDetail(w, http.StatusInternalServerError, "Error", detail, h.logger)
		return
	}

	if !json.Valid(respBody) {
		detail := fmt.Sprintf("upstream returned status %d with a non JSON body", status)
		h.logger.Error("submit proxy got invalid response", "upstream_status", status)
		WriteErrorDetail(w, http.StatusInternalServerError, "Error", detail, h.logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(respBody); err != nil {
		h.logger.Error("failed to write proxied response", "error", err)
	}
}
