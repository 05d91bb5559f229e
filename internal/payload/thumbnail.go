package payload

// Thumbnail is one entry of a thumbnail list.
type Thumbnail struct {
	URL    string
	Width  int
	Height int
}

func (t Thumbnail) node() map[string]any {
	return map[string]any{
		"url":    t.URL,
		"width":  t.Width,
		"height": t.Height,
	}
}

// ThumbnailSet is a handle on the object owning a "thumbnails" list. The
// client tries entries in order.
type ThumbnailSet struct {
	owner map[string]any
}

// ThumbnailSetOf wraps a renderer's "thumbnail" object.
func ThumbnailSetOf(owner map[string]any) (ThumbnailSet, bool) {
	if owner == nil {
		return ThumbnailSet{}, false
	}
	if _, ok := owner["thumbnails"].([]any); !ok {
		return ThumbnailSet{}, false
	}
	return ThumbnailSet{owner: owner}, true
}

// Len returns the number of entries.
func (s ThumbnailSet) Len() int {
	return len(Array(s.owner["thumbnails"]))
}

// PrimaryURL returns the URL of the first entry.
func (s ThumbnailSet) PrimaryURL() string {
	return String(Dig(s.owner, "thumbnails", 0, "url"))
}

// Entries returns a copy of the current entries.
func (s ThumbnailSet) Entries() []Thumbnail {
	raw := Array(s.owner["thumbnails"])
	out := make([]Thumbnail, 0, len(raw))
	for _, e := range raw {
		m := Object(e)
		out = append(out, Thumbnail{
			URL:    String(m["url"]),
			Width:  number(m["width"]),
			Height: number(m["height"]),
		})
	}
	return out
}

// Replace swaps the whole list for entries.
func (s ThumbnailSet) Replace(entries ...Thumbnail) {
	list := make([]any, 0, len(entries))
	for _, e := range entries {
		list = append(list, e.node())
	}
	s.owner["thumbnails"] = list
}

// Nodes returns a detached copy of the list suitable for embedding
// elsewhere in a payload.
func (s ThumbnailSet) Nodes() []any {
	entries := s.Entries()
	list := make([]any, 0, len(entries))
	for _, e := range entries {
		list = append(list, e.node())
	}
	return list
}

// CompactThumbnails returns the thumbnail set of a compact video renderer.
func CompactThumbnails(renderer map[string]any) (ThumbnailSet, bool) {
	return ThumbnailSetOf(DigObject(renderer, "thumbnail"))
}
