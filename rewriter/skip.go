package rewriter

import (
	"slices"

	"github.com/alorle/tvtube-proxy/internal/payload"
	"github.com/alorle/tvtube-proxy/internal/segment"
	"github.com/alorle/tvtube-proxy/internal/settings"
)

const skipIcon = "SKIP_NEXT"

// OverlayAction is a timed button shown over the player.
type OverlayAction struct {
	Label      string
	Icon       string
	Command    map[string]any
	OffsetMs   int64
	DurationMs int64
}

// SkipAction builds the action that jumps past seg.
func SkipAction(seg segment.Segment) OverlayAction {
	return OverlayAction{
		Label: "Skip " + seg.Category(),
		Icon:  skipIcon,
		Command: map[string]any{
			"clickTrackingParams": nil,
			"showEngagementPanelEndpoint": map[string]any{
				"customAction": map[string]any{
					"action":     "SKIP",
					"parameters": map[string]any{"time": seg.End()},
				},
			},
		},
		OffsetMs:   seg.StartMs(),
		DurationMs: seg.DurationMs(),
	}
}

// Node renders the action as a timelyActionRenderer entry.
func (a OverlayAction) Node() map[string]any {
	return map[string]any{
		"timelyActionRenderer": map[string]any{
			"actionButtons": []any{
				map[string]any{
					"buttonRenderer": map[string]any{
						"text":    map[string]any{"runs": []any{map[string]any{"text": a.Label}}},
						"icon":    map[string]any{"iconType": a.Icon},
						"command": a.Command,
					},
				},
			},
			"triggerTimeMs": a.OffsetMs,
			"timeoutMs":     a.DurationMs,
		},
	}
}

// injectSkips replaces the overlay's timely actions with one skip action
// per cached segment whose category is enabled. Videos without cached
// segments keep the actions the server sent.
func (p *pass) injectSkips(root any) {
	categories := p.settings.Strings(settings.SponsorBlockManualSkips)
	if len(categories) == 0 || p.segments == nil {
		return
	}
	overlay, ok := payload.OverlayRenderer(root)
	if !ok {
		return
	}

	videoID := payload.CurrentVideoID(root)
	if videoID == "" {
		videoID = p.segments.CurrentVideo()
	}

	segs := p.segments.Segments(videoID)
	if segs == nil {
		return
	}

	actions := []any{}
	for _, seg := range segs {
		if slices.Contains(categories, seg.Category()) {
			actions = append(actions, SkipAction(seg).Node())
		}
	}
	overlay["timelyActionRenderers"] = actions
	p.stats.OverlayActions += len(actions)
}
