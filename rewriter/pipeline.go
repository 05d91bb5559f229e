// Package rewriter transforms decoded TV-client API payloads: it strips ad
// placements, forces playback quality, upgrades thumbnails, swaps in crowd
// titles, adds long-press menus and injects manual skip buttons.
package rewriter

import (
	"log/slog"

	"github.com/alorle/tvtube-proxy/internal/enrichment"
	"github.com/alorle/tvtube-proxy/internal/payload"
	"github.com/alorle/tvtube-proxy/internal/port/driven"
	"github.com/alorle/tvtube-proxy/internal/settings"
	"github.com/alorle/tvtube-proxy/logging"
	"github.com/alorle/tvtube-proxy/metrics"
)

// Enricher schedules asynchronous title and thumbnail lookups for a tile.
type Enricher interface {
	Enrich(b *enrichment.Batch, tile payload.Tile, withThumbnails bool) bool
}

// Pipeline applies every rewrite stage in a fixed order. It keeps no state
// between payloads.
type Pipeline struct {
	settings driven.SettingsSource
	segments driven.SegmentCache
	enricher Enricher
	logger   *slog.Logger
}

// New creates a Pipeline. segments and enricher may be nil, which disables
// the stages that need them.
func New(source driven.SettingsSource, segments driven.SegmentCache, enricher Enricher, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Pipeline{
		settings: source,
		segments: segments,
		enricher: enricher,
		logger:   logger,
	}
}

// pass holds the state of one Apply call.
type pass struct {
	settings driven.Settings
	segments driven.SegmentCache
	enricher Enricher
	batch    *enrichment.Batch
	logger   *slog.Logger
	stats    Stats
}

// Apply rewrites root in place. The synchronous stages finish before Apply
// returns; enrichment updates land afterwards through the returned batch.
// A panicking stage is logged and the payload is returned as it stands.
func (p *Pipeline) Apply(root any) Result {
	batch := enrichment.NewBatch(p.logger, func(enrichment.Update) {
		metrics.RecordUpdateApplied()
	})
	ps := &pass{
		settings: p.settings.Current(),
		segments: p.segments,
		enricher: p.enricher,
		batch:    batch,
		logger:   p.logger.With("batch_id", batch.ID()),
	}

	batch.Do(func() { ps.run(root) })
	batch.Seal()

	return Result{Payload: root, Enrichment: batch, Stats: ps.stats}
}

func (p *pass) run(root any) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("rewrite stage panicked", "panic", r)
		}
	}()

	adBlock := p.settings.Bool(settings.EnableAdBlock)
	if adBlock {
		p.clearRootAds(root)
		p.removeAdReels(root)
		p.removeAdSections(root)
	}
	if !p.settings.Bool(settings.EnableShorts) {
		p.dropShortsShelves(root)
	}
	p.forceQuality(root)

	hq := p.settings.Bool(settings.EnableHqThumbnails)
	for _, c := range payload.Locate(root) {
		if adBlock {
			p.removeAdItems(c)
		}
		p.processTiles(c, hq)
	}
	if hq {
		p.upgradeCompactRenderers(root)
	}

	p.injectSkips(root)
}

// processTiles runs the per-tile stages over one collection: enrichment
// first, then the thumbnail upgrade, then the long-press menu so it sees
// the final thumbnails.
func (p *pass) processTiles(c payload.Collection, hq bool) {
	crowdTitles := p.enricher != nil && p.settings.Bool(settings.EnableDeArrow)
	crowdThumbs := p.settings.Bool(settings.EnableDeArrowThumbnails)
	longPress := p.settings.Bool(settings.EnableLongPress)

	for _, item := range c.Items() {
		tile, ok := payload.TileOf(item)
		if !ok {
			continue
		}
		if crowdTitles && p.enricher.Enrich(p.batch, tile, crowdThumbs) {
			p.stats.LookupsScheduled++
		}
		if hq {
			p.upgradeTile(tile)
		}
		if longPress {
			p.addLongPress(tile)
		}
	}
}
