package rewriter

import "github.com/alorle/tvtube-proxy/internal/payload"

const queueListType = "PLAYLIST_EDIT_LIST_TYPE_QUEUE"

// LongPressCommand builds the context menu shown when a tile is held down.
// It captures the tile's fields as they are when called.
func LongPressCommand(tile payload.Tile) map[string]any {
	videoID := tile.ContentID()

	var thumbnails []any
	if set, ok := tile.Thumbnails(); ok {
		thumbnails = set.Nodes()
	}

	items := []any{}
	if watch := tile.WatchEndpoint(); watch != nil {
		items = append(items, menuItem("Play", map[string]any{
			"clickTrackingParams": nil,
			"watchEndpoint":       watch,
		}))
	}
	items = append(items, menuItem("Add to queue", map[string]any{
		"clickTrackingParams": nil,
		"addToPlaylistCommand": map[string]any{
			"openMiniplayer": true,
			"listType":       queueListType,
			"videoId":        videoID,
			"videoIds":       []any{videoID},
		},
	}))

	return map[string]any{
		"clickTrackingParams": nil,
		"showMenuCommand": map[string]any{
			"contentId": videoID,
			"thumbnail": map[string]any{"thumbnails": thumbnails},
			"title":     map[string]any{"simpleText": tile.Title()},
			"subtitle":  map[string]any{"simpleText": tile.Subtitle()},
			"menu": map[string]any{
				"menuRenderer": map[string]any{"items": items},
			},
		},
	}
}

func menuItem(label string, command map[string]any) map[string]any {
	return map[string]any{
		"menuServiceItemRenderer": map[string]any{
			"text":            map[string]any{"runs": []any{map[string]any{"text": label}}},
			"serviceEndpoint": command,
		},
	}
}

func (p *pass) addLongPress(tile payload.Tile) {
	if tile.Style() != payload.DefaultTileStyle || tile.HasLongPress() {
		return
	}
	tile.SetLongPress(LongPressCommand(tile))
	p.stats.LongPressInjected++
}
