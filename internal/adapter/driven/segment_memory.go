package driven

import (
	"slices"
	"sync"

	"github.com/alorle/tvtube-proxy/internal/segment"
)

// SegmentMemoryStore implements the SegmentStore port in memory. Only the
// most recent maxVideos videos are kept.
type SegmentMemoryStore struct {
	mu        sync.RWMutex
	segments  map[string][]segment.Segment
	order     []string
	current   string
	maxVideos int
}

// NewSegmentMemoryStore creates an empty store.
func NewSegmentMemoryStore(maxVideos int) *SegmentMemoryStore {
	if maxVideos <= 0 {
		maxVideos = 64
	}
	return &SegmentMemoryStore{
		segments:  make(map[string][]segment.Segment),
		maxVideos: maxVideos,
	}
}

// Put replaces the segments of videoID and marks it as the current video.
func (s *SegmentMemoryStore) Put(videoID string, segs []segment.Segment) error {
	if videoID == "" {
		return segment.ErrEmptyVideoID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.segments[videoID]; ok {
		s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == videoID })
	}
	s.order = append(s.order, videoID)
	s.segments[videoID] = append([]segment.Segment{}, segs...)
	s.current = videoID

	for len(s.order) > s.maxVideos {
		delete(s.segments, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

// Segments returns a copy of the segments cached for videoID.
func (s *SegmentMemoryStore) Segments(videoID string) []segment.Segment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.segments[videoID])
}

// CurrentVideo returns the video segments were last published for.
func (s *SegmentMemoryStore) CurrentVideo() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
