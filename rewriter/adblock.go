package rewriter

import "github.com/alorle/tvtube-proxy/internal/payload"

// clearRootAds neutralises the ad fields carried directly on the payload
// root. When any of them is present all three are written, since clearing
// only the placements is not enough for the player.
func (p *pass) clearRootAds(root any) {
	m := payload.Object(root)
	if m == nil {
		return
	}
	_, placements := m["adPlacements"]
	_, playerAds := m["playerAds"]
	_, slots := m["adSlots"]
	if !placements && !playerAds && !slots {
		return
	}
	m["adPlacements"] = []any{}
	m["playerAds"] = false
	m["adSlots"] = []any{}
}

// removeAdSections drops masthead ad slots from the home section list.
func (p *pass) removeAdSections(root any) {
	if c, ok := payload.HomeSectionList(root); ok {
		p.stats.AdsRemoved += c.Remove(payload.IsAdSlot)
	}
}

// removeAdReels drops sponsored entries from a short-form feed.
func (p *pass) removeAdReels(root any) {
	if c, ok := payload.ReelList(root); ok {
		p.stats.AdsRemoved += c.Remove(payload.IsAdReel)
	}
}

func (p *pass) removeAdItems(c payload.Collection) {
	p.stats.AdsRemoved += c.Remove(payload.IsAdSlot)
}
