package tui

// Package-level constants to avoid magic numbers and improve readability.
const (
	channelBufferSize = 256

	defaultWidth  = 80
	defaultHeight = 24

	// Inner size of the fingerprint pad, excluding its border.
	padInnerWidth  = 22
	padInnerHeight = 9

	progressWidth = 26
	percentScale  = 100.0

	// Colours follow the 256-colour palette used across the views.
	colorAccent  = "33"  // blue
	colorMuted   = "241" // gray
	colorDim     = "238"
	colorAlert   = "196" // red
	colorOK      = "46"  // green
	colorWarn    = "208" // orange
	colorAlertBg = "52"
	colorOKBg    = "22"
)
