package driven

import (
	"context"

	"github.com/alorle/tvtube-proxy/internal/branding"
)

// BrandingService defines the interface for looking up crowd-sourced titles
// and thumbnails of a video.
// This is a driven port that will be implemented by concrete adapters (e.g., HTTP client).
type BrandingService interface {
	// Branding returns the candidates submitted for videoID. Non-2xx
	// responses and malformed bodies are returned as errors.
	Branding(ctx context.Context, videoID string) (branding.Branding, error)

	// Ping reports whether the service is currently usable.
	Ping(ctx context.Context) error
}
