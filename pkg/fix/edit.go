// Package fix describes byte-range replacements and applies them.
// It also renders unified diffs of the result for dry runs.
package fix

// TextEdit represents a single text replacement.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// Delta returns the change in content length caused by the edit.
func (e TextEdit) Delta() int {
	return len(e.NewText) - (e.EndOffset - e.StartOffset)
}
