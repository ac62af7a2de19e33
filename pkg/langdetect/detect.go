// Package langdetect classifies fenced code block info strings.
// It uses go-enry's alias table so that any spelling linguist knows for a
// language resolves to the same canonical name.
package langdetect

import (
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// mathLanguages are canonical linguist names whose fences hold math.
//
//nolint:gochecknoglobals // Read-only lookup table.
var mathLanguages = map[string]bool{
	"TeX": true,
}

// mathAliases are fence labels used by Markdown math renderers that
// linguist does not know.
//
//nolint:gochecknoglobals // Read-only lookup table.
var mathAliases = map[string]bool{
	"math":    true,
	"katex":   true,
	"mathjax": true,
	"latex":   true,
	"tex":     true,
}

// FirstWord returns the language word of a fence info string.
func FirstWord(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], "{}.")
}

// Canonical resolves a fence label to linguist's language name.
// It returns "" when the label is unknown.
func Canonical(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return ""
	}
	if lang, ok := enry.GetLanguageByAlias(label); ok {
		return lang
	}
	return ""
}

// IsMath reports whether a fence info string marks a block of math.
func IsMath(info string) bool {
	label := strings.ToLower(FirstWord(info))
	if label == "" {
		return false
	}
	if mathAliases[label] {
		return true
	}
	return mathLanguages[Canonical(label)]
}
