package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"strings"
	"time"

	"github.com/alorle/tvtube-proxy/metrics"
	"github.com/alorle/tvtube-proxy/rewriter"
)

// ErrNotJSON is returned for bodies that are not a JSON document. Callers
// pass such bodies through unchanged.
var ErrNotJSON = errors.New("body is not a JSON document")

// InterceptService runs upstream response bodies through the rewrite
// pipeline.
type InterceptService struct {
	pipeline rewriter.Interface
	window   time.Duration
	logger   *slog.Logger
}

// NewInterceptService creates a new InterceptService. window bounds how long
// Intercept waits for crowd enrichment before encoding the payload; updates
// landing later are dropped for this response.
func NewInterceptService(pipeline rewriter.Interface, window time.Duration, logger *slog.Logger) *InterceptService {
	return &InterceptService{
		pipeline: pipeline,
		window:   window,
		logger:   logger,
	}
}

// IsJSON reports whether a Content-Type header names a JSON body.
func IsJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// decode parses body keeping numbers as json.Number so integers beyond
// float64 precision are written back unchanged.
func decode(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return root, nil
}

// Intercept decodes body, rewrites it and returns the re-encoded payload.
// Bodies that do not decode return ErrNotJSON and must be forwarded as-is.
func (s *InterceptService) Intercept(ctx context.Context, body []byte) ([]byte, error) {
	start := time.Now()

	root, err := decode(body)
	if err != nil {
		metrics.RecordIntercept(metrics.OutcomePassthrough, time.Since(start))
		return nil, fmt.Errorf("%w: %v", ErrNotJSON, err)
	}

	res := s.pipeline.Apply(root)
	stats := res.Stats

	if s.window > 0 && stats.LookupsScheduled > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, s.window)
		if err := res.Enrichment.Wait(waitCtx); err != nil {
			s.logger.Debug("enrichment window elapsed",
				"batch_id", res.Enrichment.ID(),
				"lookups", stats.LookupsScheduled,
				"applied", res.Enrichment.Applied(),
			)
		}
		cancel()
	}

	var buf bytes.Buffer
	var encodeErr error
	res.Enrichment.Do(func() {
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		encodeErr = enc.Encode(res.Payload)
	})
	if encodeErr != nil {
		metrics.RecordIntercept(metrics.OutcomeError, time.Since(start))
		return nil, fmt.Errorf("failed to encode rewritten payload: %w", encodeErr)
	}

	metrics.RecordIntercept(metrics.OutcomeRewritten, time.Since(start))
	metrics.RecordRewrite(
		stats.AdsRemoved,
		stats.ShelvesDropped,
		stats.ThumbnailsUpgraded,
		stats.LongPressInjected,
		stats.OverlayActions,
	)

	s.logger.Debug("payload rewritten",
		"batch_id", res.Enrichment.ID(),
		"ads_removed", stats.AdsRemoved,
		"thumbnails_upgraded", stats.ThumbnailsUpgraded,
		"lookups", stats.LookupsScheduled,
		"duration", time.Since(start),
	)

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
