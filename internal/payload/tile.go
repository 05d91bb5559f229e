package payload

// DefaultTileStyle is the style of ordinary video tiles on the TV surfaces.
const DefaultTileStyle = "TILE_STYLE_YTLR_DEFAULT"

// Tile is a view on one tileRenderer. Accessors tolerate any missing
// branch; mutators only write into existing objects so the tile map itself
// is never replaced.
type Tile struct {
	r map[string]any
}

// TileOf returns the tile view of a collection entry.
func TileOf(item any) (Tile, bool) {
	r := DigObject(item, "tileRenderer")
	return Tile{r: r}, r != nil
}

// ContentID is the identifier the tile points at. For playlists and mixes
// it is not a video id.
func (t Tile) ContentID() string {
	return String(t.r["contentId"])
}

// Style returns the tile's style tag.
func (t Tile) Style() string {
	return String(t.r["style"])
}

// Title returns the display title.
func (t Tile) Title() string {
	return String(Dig(t.r, "metadata", "tileMetadataRenderer", "title", "simpleText"))
}

// SetTitle overwrites the display title. It reports false when the tile
// has no metadata renderer to write into.
func (t Tile) SetTitle(title string) bool {
	meta := DigObject(t.r, "metadata", "tileMetadataRenderer")
	if meta == nil {
		return false
	}
	Ensure(meta, "title")["simpleText"] = title
	return true
}

// Subtitle returns the first metadata line, preferring the first run of a
// structured text over its plain form.
func (t Tile) Subtitle() string {
	node := Dig(t.r, "metadata", "tileMetadataRenderer", "lines", 0, "lineRenderer", "items", 0, "lineItemRenderer", "text")
	if runs := Array(Dig(node, "runs")); len(runs) > 0 {
		return String(Dig(runs[0], "text"))
	}
	return String(Dig(node, "simpleText"))
}

// Thumbnails returns the tile's header thumbnail set.
func (t Tile) Thumbnails() (ThumbnailSet, bool) {
	return ThumbnailSetOf(DigObject(t.r, "header", "tileHeaderRenderer", "thumbnail"))
}

// WatchEndpoint returns the watch endpoint of the selection command.
func (t Tile) WatchEndpoint() map[string]any {
	return DigObject(t.r, "onSelectCommand", "watchEndpoint")
}

// HasLongPress reports whether a long-press command is already set.
func (t Tile) HasLongPress() bool {
	return t.r["onLongPressCommand"] != nil
}

// SetLongPress assigns the long-press command.
func (t Tile) SetLongPress(cmd map[string]any) {
	t.r["onLongPressCommand"] = cmd
}

// Renderer exposes the underlying tileRenderer object.
func (t Tile) Renderer() map[string]any {
	return t.r
}
