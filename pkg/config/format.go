package config

import (
	"fmt"
	"slices"
	"strings"
)

// OutputFormats lists the supported report formats.
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatText, FormatJSON, FormatDiff}
}

// ParseOutputFormat converts a flag or config value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatText, nil
	}
	if !slices.Contains(OutputFormats(), f) {
		return "", fmt.Errorf("unknown format %q (valid: text, json, diff)", s)
	}
	return f, nil
}

// ParseColorMode converts a --color value to a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", fmt.Errorf("unknown color mode %q (valid: auto, always, never)", s)
	}
}
