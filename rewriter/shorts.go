package rewriter

import "github.com/alorle/tvtube-proxy/internal/payload"

const shortsShelfType = "TVHTML5_SHELF_RENDERER_TYPE_SHORTS"

func isShortsShelf(section any) bool {
	return payload.String(payload.Dig(section, "shelfRenderer", "tvhtml5ShelfRendererType")) == shortsShelfType
}

// dropShortsShelves removes short-form shelves from the home surface.
func (p *pass) dropShortsShelves(root any) {
	if c, ok := payload.HomeSectionList(root); ok {
		p.stats.ShelvesDropped += c.Remove(isShortsShelf)
	}
}
