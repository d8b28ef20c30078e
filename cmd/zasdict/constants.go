package main

// Default limits for CLI commands.
const (
	DefaultHistoryLimit = 20
	DefaultSearchLimit  = 0 // no limit
)

// Valid export formats.
var validFormats = []string{"json", "csv", "markdown"}
