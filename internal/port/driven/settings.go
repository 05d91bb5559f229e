package driven

// Settings is a read-only snapshot of named policy toggles.
type Settings interface {
	// Bool returns a boolean toggle; unknown names read as false.
	Bool(name string) bool

	// Strings returns an ordered string list; unknown names read as empty.
	Strings(name string) []string
}

// SettingsSource hands out point-in-time Settings snapshots.
type SettingsSource interface {
	Current() Settings
}
