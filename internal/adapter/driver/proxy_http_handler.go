package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"

	"github.com/alorle/tvtube-proxy/internal/application"
	"github.com/alorle/tvtube-proxy/logging"
)

// DefaultMaxBodySize caps the response bodies buffered for rewriting.
// Larger bodies are streamed through untouched.
const DefaultMaxBodySize = 32 << 20

// ProxyHTTPHandler forwards every request to the TV-client API and runs
// JSON responses through the interception service.
type ProxyHTTPHandler struct {
	proxy       *httputil.ReverseProxy
	service     *application.InterceptService
	maxBodySize int64
	logger      *slog.Logger
}

// NewProxyHTTPHandler creates a reverse proxy to target. A maxBodySize of
// zero selects DefaultMaxBodySize.
func NewProxyHTTPHandler(target *url.URL, service *application.InterceptService, maxBodySize int64, logger *slog.Logger) *ProxyHTTPHandler {
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}
	h := &ProxyHTTPHandler{
		service:     service,
		maxBodySize: maxBodySize,
		logger:      logger,
	}

	h.proxy = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			// Keeps client-chosen encodings such as br away from the upstream.
			// The transport negotiates gzip itself and decompresses it.
			pr.Out.Header.Del("Accept-Encoding")
		},
		ModifyResponse: h.modifyResponse,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logging.WriteJSONError(w, h.logger, "upstream request failed", http.StatusBadGateway,
				"error", err,
				"path", r.URL.Path,
			)
		},
	}

	return h
}

// ServeHTTP forwards the request upstream.
func (h *ProxyHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.proxy.ServeHTTP(w, r)
}

func (h *ProxyHTTPHandler) modifyResponse(resp *http.Response) error {
	if resp.Request.Method == http.MethodHead ||
		!application.IsJSON(resp.Header.Get("Content-Type")) {
		return nil
	}
	if enc := resp.Header.Get("Content-Encoding"); enc != "" && enc != "identity" {
		return nil
	}
	if resp.ContentLength > h.maxBodySize {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBodySize+1))
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read upstream body: %w", err)
	}
	if int64(len(body)) > h.maxBodySize {
		h.logger.Warn("response too large to rewrite", "path", resp.Request.URL.Path, "limit", h.maxBodySize)
		resp.Body = io.NopCloser(bytes.NewReader(body))
		return nil
	}

	out := h.intercept(resp.Request, body)

	resp.Body = io.NopCloser(bytes.NewReader(out))
	resp.ContentLength = int64(len(out))
	resp.Header.Set("Content-Length", strconv.Itoa(len(out)))
	resp.Header.Del("Content-Encoding")
	return nil
}

// intercept returns the rewritten body, or the original one when it could
// not be rewritten.
func (h *ProxyHTTPHandler) intercept(r *http.Request, body []byte) (out []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("interception panicked", "path", r.URL.Path, "panic", rec)
			out = body
		}
	}()

	rewritten, err := h.service.Intercept(r.Context(), body)
	if err != nil {
		if !errors.Is(err, application.ErrNotJSON) {
			h.logger.Warn("failed to rewrite response", "path", r.URL.Path, "error", err)
		}
		return body
	}
	return rewritten
}
