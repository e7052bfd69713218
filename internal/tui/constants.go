package tui

// Package-level constants to avoid magic numbers and improve readability.
const (
	titleLines = 1
	// bottomLines is the height of the histogram and slider band, title included.
	bottomLines = 8
	// footerLines holds the status and help lines.
	footerLines = 2
	// columnProfileWidth is the width of the column profile strip.
	columnProfileWidth = 16
	// rowProfileLines is the height of the row profile, title included.
	rowProfileLines = 7
	panelGap        = 1

	sliderCount      = 3
	sliderLabelWidth = 7
	sliderValueWidth = 13
	// sliderFineStep and sliderCoarseStep are fractions of a slider's range.
	sliderFineStep   = 0.01
	sliderCoarseStep = 0.1

	minWidth  = 60
	minHeight = 22

	// Color constants.
	accentColor  = "63"  // blue
	grayColor    = "241" // gray
	overlayColor = "196" // red
	rectColor    = "46"  // green
	markerColor  = "226" // yellow
	errorColor   = "196" // red
)
