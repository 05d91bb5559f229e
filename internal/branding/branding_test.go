package branding

import "testing"

func ts(v float64) *float64 {
	return &v
}

func TestMostVotedTitle(t *testing.T) {
	t.Run("first maximal candidate wins a tie", func(t *testing.T) {
		b := Branding{Titles: []Title{
			{Title: "zero", Votes: 3},
			{Title: "one", Votes: 5},
			{Title: "two", Votes: 5},
			{Title: "three", Votes: 2},
		}}

		got, ok := b.MostVotedTitle()
		if !ok {
			t.Fatal("expected a candidate")
		}
		if got.Title != "one" {
			t.Errorf("MostVotedTitle() = %q, want %q", got.Title, "one")
		}
	})

	t.Run("no candidates", func(t *testing.T) {
		if _, ok := (Branding{}).MostVotedTitle(); ok {
			t.Error("expected no candidate")
		}
	})

	t.Run("single candidate", func(t *testing.T) {
		b := Branding{Titles: []Title{{Title: "only", Votes: -1}}}
		got, ok := b.MostVotedTitle()
		if !ok || got.Title != "only" {
			t.Errorf("MostVotedTitle() = %q, %v", got.Title, ok)
		}
	})
}

func TestMostVotedThumbnail(t *testing.T) {
	b := Branding{Thumbnails: []Thumbnail{
		{Original: true, Votes: 1},
		{Timestamp: ts(42.5), Votes: 4},
		{Timestamp: ts(7), Votes: 4},
	}}

	got, ok := b.MostVotedThumbnail()
	if !ok {
		t.Fatal("expected a candidate")
	}
	if !got.HasTimestamp() || *got.Timestamp != 42.5 {
		t.Errorf("MostVotedThumbnail() = %+v, want timestamp 42.5", got)
	}
}

func TestThumbnailHasTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		thumb Thumbnail
		want  bool
	}{
		{"nil", Thumbnail{}, false},
		{"zero", Thumbnail{Timestamp: ts(0)}, false},
		{"set", Thumbnail{Timestamp: ts(1.25)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.thumb.HasTimestamp(); got != tt.want {
				t.Errorf("HasTimestamp() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBrandingEmpty(t *testing.T) {
	if !(Branding{}).Empty() {
		t.Error("zero value should be empty")
	}
	if (Branding{Titles: []Title{{Title: "x"}}}).Empty() {
		t.Error("branding with a title should not be empty")
	}
}
