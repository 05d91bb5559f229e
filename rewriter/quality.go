package rewriter

import "github.com/alorle/tvtube-proxy/internal/payload"

// Quality tiers written into player responses.
const (
	defaultFormatQuality = "hd1080"
	preferredQuality     = "hd1440"
)

// forceQuality lifts the format restrictions of a player response. Every
// write only needs its parent branch to exist.
func (p *pass) forceQuality(root any) {
	m := payload.Object(root)
	if m == nil {
		return
	}

	for _, f := range payload.Array(payload.Dig(m, "streamingData", "adaptiveFormats")) {
		format := payload.Object(f)
		if format == nil {
			continue
		}
		delete(format, "targetDurationSec")
		delete(format, "maxDvrDurationSec")
		if payload.Truthy(format["qualityLabel"]) && !payload.Truthy(format["quality"]) {
			format["quality"] = defaultFormatQuality
		}
	}

	if cfg := payload.DigObject(m, "playerConfig", "streamSelectionConfig"); cfg != nil {
		cfg["maxBitrate"] = "MAX"
	}

	if ctx := payload.DigObject(m, "responseContext", "webResponseContext"); ctx != nil {
		payload.Ensure(ctx, "playerConfig")["preferredQuality"] = preferredQuality
	}

	if tracking := payload.DigObject(m, "playbackTracking"); tracking != nil {
		tracking["setAutoQuality"] = false
	}

	if payload.Truthy(m["videoDetails"]) {
		audio := payload.Ensure(payload.Ensure(m, "playerConfig"), "audioConfig")
		audio["enablePerFormatLoudness"] = false
		payload.Ensure(m, "streamingData")["formatSelection"] = map[string]any{
			"selectedQuality": preferredQuality,
		}
	}
}
