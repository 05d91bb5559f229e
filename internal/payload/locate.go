package payload

// Collection is an order-preserving list of entries located inside a
// payload. Different container shapes (browse sections, watch-next results,
// continuation lists, shelf items) are all exposed through this handle.
type Collection struct {
	name   string
	parent map[string]any
	key    string
}

// Name identifies which known shape the collection was located through.
func (c Collection) Name() string {
	return c.name
}

// Items returns the current entries of the collection.
func (c Collection) Items() []any {
	return Array(c.parent[c.key])
}

// Remove deletes every entry matching pred, keeping the relative order of
// the rest, and writes the result back into the payload. It returns the
// number of removed entries.
func (c Collection) Remove(pred func(item any) bool) int {
	items := c.Items()
	kept := items[:0]
	for _, item := range items {
		if !pred(item) {
			kept = append(kept, item)
		}
	}
	removed := len(items) - len(kept)
	if removed == 0 {
		return 0
	}
	clear(items[len(kept):])
	c.parent[c.key] = kept
	return removed
}

// Collection names.
const (
	HomeSections           = "home-sections"
	BrowseSections         = "browse-sections"
	ContinuationSections   = "continuation-sections"
	HorizontalContinuation = "horizontal-continuation"
	WatchNextResults       = "watch-next-results"
	ShelfItems             = "shelf-items"
	ReelEntries            = "reel-entries"
)

func collectionAt(name string, parent map[string]any, key string) (Collection, bool) {
	if parent == nil {
		return Collection{}, false
	}
	if _, ok := parent[key].([]any); !ok {
		return Collection{}, false
	}
	return Collection{name: name, parent: parent, key: key}, true
}

// HomeSectionList locates the section list of the TV home browse surface.
func HomeSectionList(root any) (Collection, bool) {
	parent := DigObject(root, "contents", "tvBrowseRenderer", "content", "tvSurfaceContentRenderer", "content", "sectionListRenderer")
	return collectionAt(HomeSections, parent, "contents")
}

// BrowseSectionList locates a plain section list at the payload root.
func BrowseSectionList(root any) (Collection, bool) {
	parent := DigObject(root, "contents", "sectionListRenderer")
	return collectionAt(BrowseSections, parent, "contents")
}

// SectionContinuation locates the sections appended by a continuation call.
func SectionContinuation(root any) (Collection, bool) {
	parent := DigObject(root, "continuationContents", "sectionListContinuation")
	return collectionAt(ContinuationSections, parent, "contents")
}

// HorizontalListContinuation locates tiles appended to a shelf by a
// continuation call.
func HorizontalListContinuation(root any) (Collection, bool) {
	parent := DigObject(root, "continuationContents", "horizontalListContinuation")
	return collectionAt(HorizontalContinuation, parent, "items")
}

// WatchNextResultList locates the result list of the watch-next surface.
func WatchNextResultList(root any) (Collection, bool) {
	parent := DigObject(root, "contents", "singleColumnWatchNextResults", "results", "results")
	return collectionAt(WatchNextResults, parent, "contents")
}

// ShelfItemList locates the tiles of a shelf section.
func ShelfItemList(section any) (Collection, bool) {
	parent := DigObject(section, "shelfRenderer", "content", "horizontalListRenderer")
	return collectionAt(ShelfItems, parent, "items")
}

// ReelList locates the short-form entries list. Array roots never carry it.
func ReelList(root any) (Collection, bool) {
	return collectionAt(ReelEntries, Object(root), "entries")
}

// Sections returns every section list present in root.
func Sections(root any) []Collection {
	var out []Collection
	for _, locate := range []func(any) (Collection, bool){HomeSectionList, BrowseSectionList, SectionContinuation} {
		if c, ok := locate(root); ok {
			out = append(out, c)
		}
	}
	return out
}

// Locate returns every tile collection present in root: the shelves of each
// section list, horizontal continuations and watch-next shelves. Absent
// branches contribute nothing.
func Locate(root any) []Collection {
	var out []Collection
	for _, sections := range Sections(root) {
		out = append(out, shelves(sections)...)
	}
	if c, ok := HorizontalListContinuation(root); ok {
		out = append(out, c)
	}
	if c, ok := WatchNextResultList(root); ok {
		out = append(out, shelves(c)...)
	}
	return out
}

func shelves(sections Collection) []Collection {
	var out []Collection
	for _, section := range sections.Items() {
		if c, ok := ShelfItemList(section); ok {
			out = append(out, c)
		}
	}
	return out
}

// CompactRenderers returns the compact video renderers of the watch-next
// item sections and of the autoplay overlay.
func CompactRenderers(root any) []map[string]any {
	var out []map[string]any
	if results, ok := WatchNextResultList(root); ok {
		for _, content := range results.Items() {
			for _, item := range Array(Dig(content, "itemSectionRenderer", "contents")) {
				if r := DigObject(item, "compactVideoRenderer"); r != nil {
					out = append(out, r)
				}
			}
		}
	}
	if r := DigObject(root, "playerOverlays", "playerOverlayRenderer", "autoplay", "playerOverlayAutoplayRenderer", "videoDetails", "compactVideoRenderer"); r != nil {
		out = append(out, r)
	}
	return out
}

// OverlayRenderer locates the player overlay that carries timely actions.
func OverlayRenderer(root any) (map[string]any, bool) {
	r := DigObject(root, "playerOverlays", "playerOverlayRenderer")
	return r, r != nil
}

// CurrentVideoID returns the id of the video a watch payload belongs to.
func CurrentVideoID(root any) string {
	if id := String(Dig(root, "currentVideoEndpoint", "watchEndpoint", "videoId")); id != "" {
		return id
	}
	return String(Dig(root, "videoDetails", "videoId"))
}

// IsAdSlot reports whether an entry is an advertising placement.
func IsAdSlot(item any) bool {
	return Has(item, "adSlotRenderer")
}

// IsAdReel reports whether a short-form entry is flagged as an ad.
func IsAdReel(item any) bool {
	return Truthy(Dig(item, "command", "reelWatchEndpoint", "adClientParams", "isAd"))
}
