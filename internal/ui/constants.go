package ui

import "time"

// Console-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (symbols)
const (
	IconSuccess = "✓"
	IconInfo    = "ℹ"
	ErrorPrefix = "Error:"
)

// MiddleDotSeparator joins the parts of a progress description
const MiddleDotSeparator = " · "

// Progress bar sizing
const (
	MaxProgressPercent   = 100
	DescriptionMaxLength = 50
	DefaultTerminalWidth = 80
	MinBarWidth          = 10
	BarWidthDivisor      = 3
)

// Debounce durations
const (
	ProgressThrottle = 65 * time.Millisecond
)
