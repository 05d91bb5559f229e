package driver

import (
	"net/http"

	"github.com/alorle/tvtube-proxy/internal/settings"
)

// SettingsReader exposes the current settings snapshot.
type SettingsReader interface {
	Snapshot() settings.Snapshot
}

// SettingsHTTPHandler serves the settings the pipeline currently applies.
type SettingsHTTPHandler struct {
	reader SettingsReader
}

// NewSettingsHTTPHandler creates a new HTTP handler for settings.
func NewSettingsHTTPHandler(reader SettingsReader) *SettingsHTTPHandler {
	return &SettingsHTTPHandler{reader: reader}
}

// ServeHTTP handles GET /settings
func (h *SettingsHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.reader.Snapshot().Values())
}
