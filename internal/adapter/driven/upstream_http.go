package driven

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// UpstreamHTTPAdapter implements the Upstream port with a HEAD request to
// the proxied API host.
type UpstreamHTTPAdapter struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewUpstreamHTTPAdapter creates a new upstream probe.
func NewUpstreamHTTPAdapter(baseURL string, timeout time.Duration, logger *slog.Logger) *UpstreamHTTPAdapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &UpstreamHTTPAdapter{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Ping checks that the upstream answers without a server error.
func (a *UpstreamHTTPAdapter) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, a.baseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create upstream ping request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Warn("upstream unreachable", "url", a.baseURL, "error", err)
		return fmt.Errorf("upstream unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}
	return nil
}
