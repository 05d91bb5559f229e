// Package settings holds the policy toggles the rewrite pipeline consults.
// Snapshots are immutable; a Store swaps them atomically on reload.
package settings

import (
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/alorle/tvtube-proxy/internal/port/driven"
)

// Setting names.
const (
	EnableAdBlock           = "enableAdBlock"
	EnableShorts            = "enableShorts"
	EnableDeArrow           = "enableDeArrow"
	EnableDeArrowThumbnails = "enableDeArrowThumbnails"
	EnableHqThumbnails      = "enableHqThumbnails"
	EnableLongPress         = "enableLongPress"
	SponsorBlockManualSkips = "sponsorBlockManualSkips"
)

func defaults() map[string]any {
	return map[string]any{
		EnableAdBlock:           true,
		EnableShorts:            true,
		EnableDeArrow:           false,
		EnableDeArrowThumbnails: false,
		EnableHqThumbnails:      false,
		EnableLongPress:         true,
		SponsorBlockManualSkips: []string{},
	}
}

// Snapshot is an immutable set of setting values.
type Snapshot struct {
	values map[string]any
}

// Defaults returns the snapshot used when no settings file exists.
func Defaults() Snapshot {
	return Snapshot{values: defaults()}
}

// NewSnapshot layers values over the defaults. Unknown names are kept so
// that newer clients can round-trip them.
func NewSnapshot(values map[string]any) Snapshot {
	merged := defaults()
	for k, v := range values {
		merged[k] = normalize(v)
	}
	return Snapshot{values: merged}
}

// Parse decodes a YAML settings document.
func Parse(data []byte) (Snapshot, error) {
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	return NewSnapshot(values), nil
}

// Bool implements driven.Settings.
func (s Snapshot) Bool(name string) bool {
	b, _ := s.values[name].(bool)
	return b
}

// Strings implements driven.Settings. The returned slice is a copy.
func (s Snapshot) Strings(name string) []string {
	list, _ := s.values[name].([]string)
	return slices.Clone(list)
}

// Values returns a copy of every value in the snapshot.
func (s Snapshot) Values() map[string]any {
	out := maps.Clone(s.values)
	for k, v := range out {
		if list, ok := v.([]string); ok {
			out[k] = slices.Clone(list)
		}
	}
	return out
}

// Current lets a fixed snapshot act as its own driven.SettingsSource.
func (s Snapshot) Current() driven.Settings {
	return s
}

// normalize turns YAML/JSON string sequences into []string so that Strings
// does not need to care where a value came from.
func normalize(v any) any {
	list, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return v
		}
		out = append(out, s)
	}
	return out
}
