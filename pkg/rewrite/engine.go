// Package rewrite replaces display math in Markdown with placeholder
// tokens and moves the math into a mathstore.Store.
//
// Replacements are applied right to left. Every occurrence still waiting
// to be processed lies before all text already rewritten, so its offsets,
// taken from the original content, remain valid in the buffer being
// edited.
package rewrite

import (
	"bytes"
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/yaklabco/gomdmath/pkg/extract"
	"github.com/yaklabco/gomdmath/pkg/fix"
	"github.com/yaklabco/gomdmath/pkg/mathstore"
)

// Replacement is one applied substitution.
type Replacement struct {
	// TextEdit is the substitution in original-content coordinates;
	// NewText is the placeholder token.
	fix.TextEdit

	// ID is the store identifier.
	ID string

	// Source is the replaced math text.
	Source string

	// Origin tells how the math was found.
	Origin extract.Origin
}

// Result is the outcome of Rewrite.
type Result struct {
	// Text is the rewritten content.
	Text []byte

	// Applied lists the replacements in document order.
	Applied []Replacement

	// Dropped lists occurrences left in the text because their offsets
	// were not on grapheme cluster boundaries, or reached into text that
	// had already been replaced.
	Dropped []extract.Occurrence
}

// Rewrite replaces every occurrence in original with its placeholder and
// appends the replaced math to store. original is not modified.
func Rewrite(original []byte, occurrences []extract.Occurrence, store *mathstore.Store) *Result {
	ordered := slices.Clone(occurrences)
	slices.SortStableFunc(ordered, func(a, b extract.Occurrence) int {
		return cmp.Or(cmp.Compare(b.Start, a.Start), cmp.Compare(b.End, a.End))
	})

	res := &Result{}
	text := slices.Clone(original)

	// Bytes at or after limit have been rewritten.
	limit := len(text)

	for _, occ := range ordered {
		if !aligned(text, occ.Start, occ.End, limit) {
			res.Dropped = append(res.Dropped, occ)
			continue
		}

		source := string(text[occ.Start:occ.End])
		id := store.AppendDisplayMath(source)
		token := mathstore.Token(id)

		text = slices.Replace(text, occ.Start, occ.End, []byte(token)...)
		limit = occ.Start

		res.Applied = append(res.Applied, Replacement{
			TextEdit: fix.TextEdit{StartOffset: occ.Start, EndOffset: occ.End, NewText: token},
			ID:       id,
			Source:   source,
			Origin:   occ.Origin,
		})
	}

	slices.Reverse(res.Applied)
	slices.Reverse(res.Dropped)
	res.Text = text

	return res
}

// aligned reports whether [start, end) is a non-empty range of whole
// grapheme clusters that ends at or before limit.
func aligned(text []byte, start, end, limit int) bool {
	if start < 0 || end <= start || end > limit {
		return false
	}
	return onBoundary(text, start) && onBoundary(text, end)
}

// onBoundary reports whether a grapheme cluster starts at text[i]. A
// combining mark after i, or a prepended mark before it, joins the
// characters on either side into one cluster.
func onBoundary(text []byte, i int) bool {
	if i <= 0 || i >= len(text) {
		return true
	}
	if !utf8.RuneStart(text[i]) {
		return false
	}

	prev, next := text[i-1], text[i]
	if prev < utf8.RuneSelf && next < utf8.RuneSelf {
		return prev != '\r' || next != '\n'
	}

	// A line feed always ends a cluster, so segmentation can start at the
	// beginning of the line.
	pos := bytes.LastIndexByte(text[:i], '\n') + 1
	state := -1
	for pos < i {
		var cluster []byte
		cluster, _, _, state = uniseg.FirstGraphemeCluster(text[pos:], state)
		pos += len(cluster)
	}
	return pos == i
}
