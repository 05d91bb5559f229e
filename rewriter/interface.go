package rewriter

import "github.com/alorle/tvtube-proxy/internal/enrichment"

// Interface defines the contract for rewriting one decoded API payload
type Interface interface {
	// Apply rewrites root in place and returns it with the enrichment
	// batch still resolving in the background
	Apply(root any) Result
}

// Result is the outcome of one Apply call.
type Result struct {
	// Payload is the same reference that was passed in.
	Payload any
	// Enrichment is sealed; its updates may still be landing. Any further
	// access to Payload must go through Enrichment.Do.
	Enrichment *enrichment.Batch
	Stats      Stats
}

// Stats counts what the synchronous stages changed.
type Stats struct {
	AdsRemoved         int
	ShelvesDropped     int
	ThumbnailsUpgraded int
	LongPressInjected  int
	OverlayActions     int
	LookupsScheduled   int
}
