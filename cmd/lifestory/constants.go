package main

// Default limits for CLI commands.
const (
	DefaultSearchLimit  = 5
	DefaultTimelineSize = 50
	DefaultHistorySize  = 20
	DefaultVoicePattern = "*.m4a"
)

// Valid export formats.
var validFormats = []string{"json", "csv", "markdown"}
