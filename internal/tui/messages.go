package tui

// Message types for Bubble Tea update loop.

// snapshotMsg reports the outcome of a PNG export.
type snapshotMsg struct {
	Path string
	Err  error
}
