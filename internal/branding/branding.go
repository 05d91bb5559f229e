package branding

import "errors"

// ErrNoCandidate is returned when a lookup yields nothing usable.
var ErrNoCandidate = errors.New("no branding candidate")

// Title is a crowd-submitted replacement title.
type Title struct {
	Title    string
	Votes    int
	Original bool
	Locked   bool
}

// Thumbnail is a crowd-submitted thumbnail, identified by the video
// timestamp (seconds) it is captured at. Original thumbnails carry no
// timestamp.
type Thumbnail struct {
	Timestamp *float64
	Votes     int
	Original  bool
}

// HasTimestamp reports whether the candidate points at a usable frame.
func (t Thumbnail) HasTimestamp() bool {
	return t.Timestamp != nil && *t.Timestamp != 0
}

// Branding is the set of candidates submitted for one video.
type Branding struct {
	VideoID    string
	Titles     []Title
	Thumbnails []Thumbnail
}

// Empty reports whether there are no candidates at all.
func (b Branding) Empty() bool {
	return len(b.Titles) == 0 && len(b.Thumbnails) == 0
}

// MostVotedTitle returns the title with the most votes. Ties keep the first
// maximal candidate.
func (b Branding) MostVotedTitle() (Title, bool) {
	return mostVoted(b.Titles, func(t Title) int { return t.Votes })
}

// MostVotedThumbnail returns the thumbnail with the most votes. Ties keep
// the first maximal candidate.
func (b Branding) MostVotedThumbnail() (Thumbnail, bool) {
	return mostVoted(b.Thumbnails, func(t Thumbnail) int { return t.Votes })
}

func mostVoted[T any](candidates []T, votes func(T) int) (T, bool) {
	var best T
	if len(candidates) == 0 {
		return best, false
	}
	best = candidates[0]
	for _, c := range candidates[1:] {
		if votes(c) > votes(best) {
			best = c
		}
	}
	return best, true
}
