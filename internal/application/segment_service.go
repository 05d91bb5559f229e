package application

import (
	"fmt"
	"log/slog"

	"github.com/alorle/tvtube-proxy/internal/port/driven"
	"github.com/alorle/tvtube-proxy/internal/segment"
)

// SegmentInput is one annotation as pushed by the fetching collaborator,
// with times in seconds.
type SegmentInput struct {
	Category string
	Start    float64
	End      float64
}

// SegmentService ingests annotation segments into the process-wide cache.
type SegmentService struct {
	store  driven.SegmentStore
	logger *slog.Logger
}

// NewSegmentService creates a new SegmentService.
func NewSegmentService(store driven.SegmentStore, logger *slog.Logger) *SegmentService {
	return &SegmentService{
		store:  store,
		logger: logger,
	}
}

// Publish validates inputs and replaces the segments of videoID, marking it
// as the video currently playing. Nothing is stored if any input is invalid.
func (s *SegmentService) Publish(videoID string, inputs []SegmentInput) ([]segment.Segment, error) {
	if videoID == "" {
		return nil, segment.ErrEmptyVideoID
	}

	segs := make([]segment.Segment, 0, len(inputs))
	for i, in := range inputs {
		seg, err := segment.NewSegment(in.Category, in.Start, in.End)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		segs = append(segs, seg)
	}

	if err := s.store.Put(videoID, segs); err != nil {
		return nil, fmt.Errorf("failed to store segments: %w", err)
	}

	s.logger.Info("segments published", "video_id", videoID, "count", len(segs))
	return segs, nil
}

// List returns the cached segments of videoID.
func (s *SegmentService) List(videoID string) ([]segment.Segment, error) {
	if videoID == "" {
		return nil, segment.ErrEmptyVideoID
	}
	return s.store.Segments(videoID), nil
}

// CurrentVideo returns the video segments were last published for.
func (s *SegmentService) CurrentVideo() string {
	return s.store.CurrentVideo()
}
