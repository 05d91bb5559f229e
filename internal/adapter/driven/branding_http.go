package driven

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/alorle/tvtube-proxy/cache"
	"github.com/alorle/tvtube-proxy/circuitbreaker"
	"github.com/alorle/tvtube-proxy/internal/branding"
	"github.com/alorle/tvtube-proxy/internal/segment"
)

// DefaultBrandingURL is the public crowd branding API.
const DefaultBrandingURL = "https://sponsor.ajay.app"

// BrandingHTTPOptions tunes a BrandingHTTPAdapter. Zero values select the
// defaults.
type BrandingHTTPOptions struct {
	Timeout   time.Duration
	CacheTTL  time.Duration
	CacheSize int
	Breaker   circuitbreaker.CircuitBreaker
	Cache     cache.Storage[branding.Branding] // optional, replaces the in-memory cache
}

// BrandingHTTPAdapter implements the BrandingService port against the
// crowd branding HTTP API. Answers, including empty ones, are cached for
// CacheTTL.
type BrandingHTTPAdapter struct {
	baseURL    string
	httpClient *http.Client
	breaker    circuitbreaker.CircuitBreaker
	cache      cache.Storage[branding.Branding]
	cacheTTL   time.Duration
	logger     *slog.Logger
}

// NewBrandingHTTPAdapter creates a new HTTP adapter for the branding API.
func NewBrandingHTTPAdapter(baseURL string, opts BrandingHTTPOptions, logger *slog.Logger) *BrandingHTTPAdapter {
	if baseURL == "" {
		baseURL = DefaultBrandingURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Minute
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 5000
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewMemoryStorage[branding.Branding](opts.CacheSize)
	}
	if opts.Breaker == nil {
		opts.Breaker = circuitbreaker.New(circuitbreaker.Config{
			Name:      "branding",
			Logger:    logger,
			IsFailure: IsBrandingFailure,
		})
	}

	return &BrandingHTTPAdapter{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: opts.Timeout},
		breaker:    opts.Breaker,
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
		logger:     logger,
	}
}

// IsBrandingFailure reports whether err should count against the branding
// circuit. Unknown videos and abandoned requests do not.
func IsBrandingFailure(err error) bool {
	return err != nil &&
		!errors.Is(err, branding.ErrNoCandidate) &&
		!errors.Is(err, context.Canceled)
}

// Branding returns the title and thumbnail candidates of videoID.
// Unknown videos, non-2xx answers and malformed bodies are all errors;
// unknown videos wrap branding.ErrNoCandidate.
func (a *BrandingHTTPAdapter) Branding(ctx context.Context, videoID string) (branding.Branding, error) {
	if videoID == "" {
		return branding.Branding{}, segment.ErrEmptyVideoID
	}

	if expired, _ := a.cache.IsExpired(videoID, a.cacheTTL); !expired {
		if entry, err := a.cache.Get(videoID); err == nil {
			if entry.Value.Empty() {
				return branding.Branding{}, fmt.Errorf("video %s: %w", videoID, branding.ErrNoCandidate)
			}
			return entry.Value, nil
		}
	}

	var result branding.Branding
	err := a.breaker.Execute(func() error {
		var fetchErr error
		result, fetchErr = a.fetch(ctx, videoID)
		return fetchErr
	})
	if errors.Is(err, branding.ErrNoCandidate) {
		_ = a.cache.Set(videoID, branding.Branding{VideoID: videoID})
		return branding.Branding{}, err
	}
	if err != nil {
		return branding.Branding{}, err
	}

	_ = a.cache.Set(videoID, result)
	if result.Empty() {
		return branding.Branding{}, fmt.Errorf("video %s: %w", videoID, branding.ErrNoCandidate)
	}
	return result, nil
}

type brandingResponse struct {
	Titles []struct {
		Title    string `json:"title"`
		Votes    int    `json:"votes"`
		Original bool   `json:"original"`
		Locked   bool   `json:"locked"`
	} `json:"titles"`
	Thumbnails []struct {
		Timestamp *float64 `json:"timestamp"`
		Votes     int      `json:"votes"`
		Original  bool     `json:"original"`
	} `json:"thumbnails"`
}

func (a *BrandingHTTPAdapter) fetch(ctx context.Context, videoID string) (branding.Branding, error) {
	params := url.Values{}
	params.Set("videoID", videoID)
	reqURL := fmt.Sprintf("%s/api/branding?%s", a.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return branding.Branding{}, fmt.Errorf("failed to create branding request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return branding.Branding{}, fmt.Errorf("failed to fetch branding: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return branding.Branding{}, fmt.Errorf("video %s: %w", videoID, branding.ErrNoCandidate)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return branding.Branding{}, fmt.Errorf("branding service returned status %d: %s", resp.StatusCode, string(body))
	}

	var raw brandingResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return branding.Branding{}, fmt.Errorf("failed to decode branding response: %w", err)
	}

	result := branding.Branding{VideoID: videoID}
	for _, t := range raw.Titles {
		result.Titles = append(result.Titles, branding.Title{
			Title:    t.Title,
			Votes:    t.Votes,
			Original: t.Original,
			Locked:   t.Locked,
		})
	}
	for _, t := range raw.Thumbnails {
		result.Thumbnails = append(result.Thumbnails, branding.Thumbnail{
			Timestamp: t.Timestamp,
			Votes:     t.Votes,
			Original:  t.Original,
		})
	}

	a.logger.Debug("fetched branding", "video_id", videoID, "titles", len(result.Titles), "thumbnails", len(result.Thumbnails))
	return result, nil
}

// PurgeExpired drops cached answers older than the cache TTL and reports
// how many were removed. Injected caches without a Purge method are left
// alone.
func (a *BrandingHTTPAdapter) PurgeExpired() int {
	purger, ok := a.cache.(interface{ Purge(ttl time.Duration) int })
	if !ok {
		return 0
	}
	n := purger.Purge(a.cacheTTL)
	if n > 0 {
		a.logger.Debug("purged branding cache", "removed", n)
	}
	return n
}

// Ping reports an error while the circuit to the branding API is open.
func (a *BrandingHTTPAdapter) Ping(ctx context.Context) error {
	if state := a.breaker.State(); state == circuitbreaker.StateOpen {
		return fmt.Errorf("branding service unavailable: %w", circuitbreaker.ErrCircuitOpen)
	}
	return nil
}
