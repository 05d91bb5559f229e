package segment

import (
	"errors"
	"math"
	"testing"
)

func TestNewSegment(t *testing.T) {
	tests := []struct {
		name     string
		category string
		start    float64
		end      float64
		wantErr  error
	}{
		{"valid", "sponsor", 10, 25, nil},
		{"zero length", "intro", 5, 5, nil},
		{"empty category", "", 0, 1, ErrEmptyCategory},
		{"whitespace category", "   ", 0, 1, ErrEmptyCategory},
		{"end before start", "sponsor", 10, 5, ErrInvalidRange},
		{"negative start", "sponsor", -1, 5, ErrInvalidRange},
		{"nan", "sponsor", math.NaN(), 5, ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSegment(tt.category, tt.start, tt.end)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewSegment() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSegmentMilliseconds(t *testing.T) {
	s, err := NewSegment(" sponsor ", 10, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Category() != "sponsor" {
		t.Errorf("Category() = %q, want trimmed %q", s.Category(), "sponsor")
	}
	if s.StartMs() != 10000 {
		t.Errorf("StartMs() = %d, want 10000", s.StartMs())
	}
	if s.EndMs() != 25000 {
		t.Errorf("EndMs() = %d, want 25000", s.EndMs())
	}
	if s.DurationMs() != 15000 {
		t.Errorf("DurationMs() = %d, want 15000", s.DurationMs())
	}
}

func TestSegmentFractionalSeconds(t *testing.T) {
	s, _ := NewSegment("selfpromo", 1.25, 2.5)
	if s.StartMs() != 1250 {
		t.Errorf("StartMs() = %d, want 1250", s.StartMs())
	}
	if s.DurationMs() != 1250 {
		t.Errorf("DurationMs() = %d, want 1250", s.DurationMs())
	}
}
