package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vse-rental/storefront/internal/models"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, models.ErrorResponse{Message: message}, logger)
}

// WriteErrorDetail writes an error response carrying the underlying cause
func WriteErrorDetail(w http.ResponseWriter, status int, message, detail string, logger *slog.Logger) {
	WriteJSON(w, status, models.ErrorResponse{Message: message, Error: detail}, logger)
}

// MethodNotAllowed answers with 405 and a JSON body
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	_ = json.NewEncoder(w).Encode(models.MessageResponse{Message: "Method not allowed"})
}

// NotFound answers with 404 and a JSON body
func NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(models.MessageResponse{Message: "Not found"})
}

// decodeJSON reads a bounded JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
