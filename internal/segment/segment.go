package segment

import (
	"errors"
	"math"
	"strings"
)

// Domain errors
var (
	ErrEmptyCategory = errors.New("segment category cannot be empty")
	ErrInvalidRange  = errors.New("segment range is invalid")
	ErrEmptyVideoID  = errors.New("video id cannot be empty")
)

// Segment is a categorized interval of a video, as annotated by the
// segment service. Times are in seconds.
type Segment struct {
	category string
	start    float64
	end      float64
}

// NewSegment creates a Segment after trimming the category and checking
// that 0 <= start <= end.
func NewSegment(category string, start, end float64) (Segment, error) {
	trimmed := strings.TrimSpace(category)
	if trimmed == "" {
		return Segment{}, ErrEmptyCategory
	}
	if math.IsNaN(start) || math.IsNaN(end) || start < 0 || end < start {
		return Segment{}, ErrInvalidRange
	}
	return Segment{category: trimmed, start: start, end: end}, nil
}

// Category returns the annotation category, e.g. "sponsor".
func (s Segment) Category() string {
	return s.category
}

// Start returns the start time in seconds.
func (s Segment) Start() float64 {
	return s.start
}

// End returns the end time in seconds.
func (s Segment) End() float64 {
	return s.end
}

// StartMs returns the start time in milliseconds.
func (s Segment) StartMs() int64 {
	return int64(math.Round(s.start * 1000))
}

// EndMs returns the end time in milliseconds.
func (s Segment) EndMs() int64 {
	return int64(math.Round(s.end * 1000))
}

// DurationMs returns the segment length in milliseconds.
func (s Segment) DurationMs() int64 {
	return s.EndMs() - s.StartMs()
}
