package driver

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	nethttpmiddleware "github.com/oapi-codegen/nethttp-middleware"

	"github.com/alorle/tvtube-proxy/logging"
)

//go:embed openapi.yaml
var openapiYAML []byte

// LoadOpenAPI parses and validates the admin API document.
func LoadOpenAPI() (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(openapiYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	// Requests are matched on path alone, whatever host the proxy is
	// reached through.
	doc.Servers = nil
	return doc, nil
}

// NewRequestValidator rejects admin requests that do not match doc.
func NewRequestValidator(doc *openapi3.T, logger *slog.Logger) func(http.Handler) http.Handler {
	return nethttpmiddleware.OapiRequestValidatorWithOptions(doc, &nethttpmiddleware.Options{
		SilenceServersWarning: true,
		ErrorHandler: func(w http.ResponseWriter, message string, statusCode int) {
			logging.WriteJSONError(w, logger, message, statusCode)
		},
	})
}

// NewOpenAPIHandler serves doc as JSON.
func NewOpenAPIHandler(doc *openapi3.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeJSON(w, http.StatusOK, doc)
	})
}
