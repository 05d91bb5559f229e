package driven

import (
	port "github.com/alorle/tvtube-proxy/internal/port/driven"
)

// Compile-time check that BrandingHTTPAdapter implements BrandingService interface
var _ port.BrandingService = (*BrandingHTTPAdapter)(nil)

// Compile-time check that SegmentMemoryStore implements SegmentStore interface
var _ port.SegmentStore = (*SegmentMemoryStore)(nil)

// Compile-time check that UpstreamHTTPAdapter implements Upstream interface
var _ port.Upstream = (*UpstreamHTTPAdapter)(nil)
