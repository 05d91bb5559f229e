package enrichment

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/alorle/tvtube-proxy/internal/branding"
	"github.com/alorle/tvtube-proxy/internal/payload"
	"github.com/alorle/tvtube-proxy/internal/port/driven"
	"github.com/alorle/tvtube-proxy/metrics"
)

// DefaultThumbnailURL renders a frame of a video at a given time.
const DefaultThumbnailURL = "https://dearrow-thumb.ajay.app/api/v1/getThumbnail"

// Crowd thumbnail dimensions.
const (
	ThumbnailWidth  = 1280
	ThumbnailHeight = 640
)

// Options tunes an Enricher. Zero values select the defaults.
type Options struct {
	ThumbnailURL  string
	MaxConcurrent int64
	Timeout       time.Duration
}

// Enricher schedules branding lookups for tiles. Lookups are bound to the
// Enricher's context, not to the request that triggered them, so a
// superseded payload does not cancel its lookups.
type Enricher struct {
	ctx     context.Context
	service driven.BrandingService
	opts    Options
	sem     *semaphore.Weighted
	group   singleflight.Group
	logger  *slog.Logger
}

// NewEnricher creates an Enricher. Cancelling ctx stops lookups that have
// not started yet.
func NewEnricher(ctx context.Context, service driven.BrandingService, opts Options, logger *slog.Logger) *Enricher {
	if opts.ThumbnailURL == "" {
		opts.ThumbnailURL = DefaultThumbnailURL
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 8
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Enricher{
		ctx:     ctx,
		service: service,
		opts:    opts,
		sem:     semaphore.NewWeighted(opts.MaxConcurrent),
		logger:  logger,
	}
}

// Enrich schedules a lookup for tile on b. It reports false when the tile
// has no content id to look up.
func (e *Enricher) Enrich(b *Batch, tile payload.Tile, withThumbnails bool) bool {
	videoID := tile.ContentID()
	if videoID == "" {
		return false
	}
	b.Go(func() (Update, bool) {
		return e.lookup(videoID, tile, withThumbnails)
	})
	return true
}

func (e *Enricher) lookup(videoID string, tile payload.Tile, withThumbnails bool) (Update, bool) {
	v, err, _ := e.group.Do(videoID, func() (any, error) {
		if err := e.sem.Acquire(e.ctx, 1); err != nil {
			return nil, err
		}
		defer e.sem.Release(1)

		ctx, cancel := context.WithTimeout(e.ctx, e.opts.Timeout)
		defer cancel()
		return e.service.Branding(ctx, videoID)
	})
	if err != nil {
		outcome := metrics.LookupError
		if e.ctx.Err() != nil {
			outcome = metrics.LookupRejected
		}
		metrics.RecordLookup(outcome)
		e.logger.Debug("branding lookup failed", "video_id", videoID, "error", err)
		return Update{}, false
	}

	u := e.updateFor(videoID, tile, v.(branding.Branding), withThumbnails)
	if u.Title == "" && u.Thumbnail == nil {
		metrics.RecordLookup(metrics.LookupEmpty)
		return Update{}, false
	}
	metrics.RecordLookup(metrics.LookupFound)
	return u, true
}

func (e *Enricher) updateFor(videoID string, tile payload.Tile, b branding.Branding, withThumbnails bool) Update {
	u := Update{VideoID: videoID, Tile: tile}
	if title, ok := b.MostVotedTitle(); ok {
		u.Title = title.Title
	}
	if !withThumbnails {
		return u
	}
	if thumb, ok := b.MostVotedThumbnail(); ok && thumb.HasTimestamp() {
		u.Thumbnail = &payload.Thumbnail{
			URL:    e.thumbnailURL(videoID, *thumb.Timestamp),
			Width:  ThumbnailWidth,
			Height: ThumbnailHeight,
		}
	}
	return u
}

func (e *Enricher) thumbnailURL(videoID string, timestamp float64) string {
	return e.opts.ThumbnailURL +
		"?videoID=" + url.QueryEscape(videoID) +
		"&time=" + strconv.FormatFloat(timestamp, 'f', -1, 64)
}
