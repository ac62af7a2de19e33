// Package extract finds the display math in a parsed Markdown document.
//
// ParsableSpans yields the regions of the source that may contain math:
// everything outside code, raw HTML, directive heads and link
// destinations. A Collector runs
// a math scanner over those regions and keeps the display occurrences,
// with offsets into the original, unmodified content.
package extract

import (
	"cmp"
	"iter"
	"slices"

	"github.com/yaklabco/gomdmath/pkg/langdetect"
	"github.com/yaklabco/gomdmath/pkg/mdast"
)

// Options controls which node kinds are verbatim.
type Options struct {
	// ExcludeHTML treats HTML blocks and inline HTML as verbatim.
	ExcludeHTML bool

	// MathFences reports fenced blocks labelled as math (see
	// langdetect.IsMath) as display occurrences. They stay verbatim for
	// the scanner either way.
	MathFences bool
}

// DefaultOptions excludes HTML and ignores math fences.
func DefaultOptions() Options {
	return Options{ExcludeHTML: true}
}

// VerbatimRanges returns the sorted, merged ranges of root's content that
// must not be scanned for math.
func VerbatimRanges(root *mdast.Node, opts Options) []mdast.SourceRange {
	var ranges []mdast.SourceRange

	_ = mdast.Walk(root, func(n *mdast.Node) error {
		switch {
		case n.IsCode(), opts.ExcludeHTML && n.IsHTML():
			if n.Range.IsValid() && !n.Range.IsEmpty() {
				ranges = append(ranges, n.Range)
			}
			return mdast.SkipChildren
		case n.Kind == mdast.NodeDirective && n.Directive != nil:
			if head := n.Directive.Head; head.IsValid() && !head.IsEmpty() {
				ranges = append(ranges, head)
			}
		case (n.Kind == mdast.NodeLink || n.Kind == mdast.NodeImage) && n.Inline != nil:
			if tail := n.Inline.Tail; tail.IsValid() && !tail.IsEmpty() {
				ranges = append(ranges, tail)
			}
		}
		return nil
	})

	return merge(ranges)
}

// ParsableSpans yields, left to right, the disjoint non-empty ranges of
// [0, contentLen) that lie outside every verbatim range.
func ParsableSpans(root *mdast.Node, contentLen int, opts Options) iter.Seq[mdast.SourceRange] {
	verbatim := VerbatimRanges(root, opts)

	return func(yield func(mdast.SourceRange) bool) {
		cursor := 0
		for _, r := range verbatim {
			start := min(r.StartOffset, contentLen)
			if start > cursor && !yield(mdast.Span(cursor, start)) {
				return
			}
			cursor = max(cursor, min(r.EndOffset, contentLen))
		}
		if cursor < contentLen {
			yield(mdast.Span(cursor, contentLen))
		}
	}
}

// MathFences returns the ranges of fenced code blocks labelled as math,
// fences included, in document order.
func MathFences(root *mdast.Node) []mdast.SourceRange {
	var out []mdast.SourceRange
	for n := range mdast.All(root) {
		if n.Kind != mdast.NodeCodeBlock || n.Block == nil || n.Block.CodeBlock == nil {
			continue
		}
		attrs := n.Block.CodeBlock
		if attrs.Indented || !n.Range.IsValid() || n.Range.IsEmpty() {
			continue
		}
		if langdetect.IsMath(attrs.Info) {
			out = append(out, n.Range)
		}
	}
	return out
}

// merge sorts ranges and joins overlapping or touching ones.
func merge(ranges []mdast.SourceRange) []mdast.SourceRange {
	if len(ranges) < 2 {
		return ranges
	}

	slices.SortFunc(ranges, func(a, b mdast.SourceRange) int {
		return cmp.Or(
			cmp.Compare(a.StartOffset, b.StartOffset),
			cmp.Compare(a.EndOffset, b.EndOffset),
		)
	})

	out := ranges[:1]
	for _, r := range ranges[1:] {
		last := &out[len(out)-1]
		if r.StartOffset <= last.EndOffset {
			last.EndOffset = max(last.EndOffset, r.EndOffset)
			continue
		}
		out = append(out, r)
	}
	return out
}
