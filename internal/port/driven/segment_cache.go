package driven

import "github.com/alorle/tvtube-proxy/internal/segment"

// SegmentCache is the read side of the process-wide annotation cache.
// It is populated by an external collaborator; readers never write to it.
type SegmentCache interface {
	// Segments returns the cached segments of videoID, or nil when unknown.
	Segments(videoID string) []segment.Segment

	// CurrentVideo returns the video the collaborator last published
	// segments for.
	CurrentVideo() string
}

// SegmentStore is the write side used by the collaborator's ingestion path.
type SegmentStore interface {
	SegmentCache

	// Put replaces the segments of videoID and marks it as current.
	Put(videoID string, segments []segment.Segment) error
}
