package logging

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// HTTPErrorResponse represents a standard JSON error response
type HTTPErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSONError writes a JSON error response and logs it with the given
// attributes.
func WriteJSONError(w http.ResponseWriter, logger *slog.Logger, message string, statusCode int, attrs ...any) {
	if logger != nil {
		logger.Error("HTTP error response", append(attrs, "status_code", statusCode, "message", message)...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(HTTPErrorResponse{Error: message}); err != nil && logger != nil {
		logger.Warn("Failed to encode error response", "error", err)
	}
}
