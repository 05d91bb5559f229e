package rewriter

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/alorle/tvtube-proxy/internal/payload"
)

const videoThumbnailPattern = "i.ytimg.com/vi/"

// Dimensions of the maximum-resolution thumbnail variant.
const (
	maxResWidth  = 1280
	maxResHeight = 720
)

var errNoVideoID = errors.New("thumbnail url carries no video id")

// MaxResThumbnail returns the maximum-resolution variant of a video
// thumbnail URL. The video id is taken from the URL path, so playlist and
// mix tiles still resolve to a real video frame. ok is false for URLs that
// are not video thumbnails.
func MaxResThumbnail(raw string) (thumb payload.Thumbnail, ok bool, err error) {
	if !strings.Contains(raw, videoThumbnailPattern) {
		return payload.Thumbnail{}, false, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return payload.Thumbnail{}, true, fmt.Errorf("failed to parse thumbnail url: %w", err)
	}

	parts := strings.Split(u.Path, "/")
	if len(parts) < 3 || parts[2] == "" {
		return payload.Thumbnail{}, true, errNoVideoID
	}

	upgraded := "https://i.ytimg.com/vi/" + parts[2] + "/maxresdefault.jpg"
	if u.RawQuery != "" {
		upgraded += "?" + u.RawQuery
	}
	return payload.Thumbnail{URL: upgraded, Width: maxResWidth, Height: maxResHeight}, true, nil
}

// upgradeThumbnails swaps set for its maximum-resolution variant. Failures
// leave the set untouched.
func (p *pass) upgradeThumbnails(set payload.ThumbnailSet) {
	if set.Len() == 0 {
		return
	}
	original := set.PrimaryURL()
	thumb, ok, err := MaxResThumbnail(original)
	if !ok {
		return
	}
	if err != nil {
		p.logger.Warn("failed to upgrade thumbnail", "url", original, "error", err)
		return
	}
	set.Replace(thumb)
	p.stats.ThumbnailsUpgraded++
}

func (p *pass) upgradeTile(tile payload.Tile) {
	if set, ok := tile.Thumbnails(); ok {
		p.upgradeThumbnails(set)
	}
}

func (p *pass) upgradeCompactRenderers(root any) {
	for _, r := range payload.CompactRenderers(root) {
		if set, ok := payload.CompactThumbnails(r); ok {
			p.upgradeThumbnails(set)
		}
	}
}
