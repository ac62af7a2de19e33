package mathstore

import (
	"bytes"
	"strings"
	"unicode"
)

// Placeholder token delimiters: @math(uuid:<id>).
const (
	TokenPrefix = "@math(uuid:"
	TokenSuffix = ")"
)

// Token returns the placeholder text for id.
func Token(id string) string {
	return TokenPrefix + id + TokenSuffix
}

// ValidID reports whether id can be embedded in a token: non-empty, and
// free of parentheses and whitespace.
func ValidID(id string) bool {
	if id == "" {
		return false
	}
	return !strings.ContainsFunc(id, func(r rune) bool {
		return r == '(' || r == ')' || unicode.IsSpace(r)
	})
}

// TokenMatch is a placeholder found in text.
type TokenMatch struct {
	// Start and End delimit the whole token in bytes.
	Start int
	End   int

	// ID is the embedded identifier.
	ID string
}

// FindTokens returns every well-formed placeholder in text, in order.
func FindTokens(text []byte) []TokenMatch {
	var matches []TokenMatch
	prefix := []byte(TokenPrefix)

	for pos := 0; pos < len(text); {
		idx := bytes.Index(text[pos:], prefix)
		if idx < 0 {
			break
		}

		start := pos + idx
		idStart := start + len(prefix)
		idLen := bytes.IndexByte(text[idStart:], TokenSuffix[0])
		if idLen < 0 {
			break
		}

		id := string(text[idStart : idStart+idLen])
		if !ValidID(id) {
			pos = idStart
			continue
		}

		end := idStart + idLen + len(TokenSuffix)
		matches = append(matches, TokenMatch{Start: start, End: end, ID: id})
		pos = end
	}

	return matches
}
