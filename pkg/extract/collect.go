package extract

import (
	"iter"

	"github.com/yaklabco/gomdmath/pkg/mathscan"
	"github.com/yaklabco/gomdmath/pkg/mdast"
)

// Origin records how an occurrence was found.
type Origin uint8

const (
	// OriginScanner marks math found by delimiter scanning.
	OriginScanner Origin = iota

	// OriginFence marks a fenced block labelled as math.
	OriginFence
)

func (o Origin) String() string {
	if o == OriginFence {
		return "fence"
	}
	return "delimiters"
}

// Occurrence is one display math expression, as byte offsets
// [Start, End) into the original content.
type Occurrence struct {
	Start  int
	End    int
	Origin Origin
}

// Range returns the occurrence as a SourceRange.
func (o Occurrence) Range() mdast.SourceRange {
	return mdast.Span(o.Start, o.End)
}

// Scanner finds math spans in a segment whose first byte sits at base.
type Scanner interface {
	Scan(segment []byte, base int) []mathscan.Span
}

// Collector gathers display math occurrences.
type Collector struct {
	scanner Scanner
}

// NewCollector creates a Collector around scanner.
func NewCollector(scanner Scanner) *Collector {
	return &Collector{scanner: scanner}
}

// Collect scans each span of content and returns the display
// occurrences. Inline math is dropped. Offsets are absolute.
func (c *Collector) Collect(content []byte, spans iter.Seq[mdast.SourceRange]) []Occurrence {
	var out []Occurrence

	for span := range spans {
		if !span.IsValid() || span.EndOffset > len(content) {
			continue
		}
		segment := content[span.StartOffset:span.EndOffset]
		for _, m := range c.scanner.Scan(segment, span.StartOffset) {
			if m.Kind != mathscan.KindDisplay {
				continue
			}
			out = append(out, Occurrence{Start: m.Start, End: m.End, Origin: OriginScanner})
		}
	}

	return out
}

// Document collects the display math of a parsed document: scanned
// occurrences from its parsable spans plus, when opts.MathFences is set,
// its math fences.
func (c *Collector) Document(snapshot *mdast.FileSnapshot, opts Options) []Occurrence {
	if snapshot == nil || snapshot.Root == nil {
		return nil
	}

	spans := ParsableSpans(snapshot.Root, len(snapshot.Content), opts)
	out := c.Collect(snapshot.Content, spans)

	if opts.MathFences {
		for _, r := range MathFences(snapshot.Root) {
			out = append(out, Occurrence{Start: r.StartOffset, End: r.EndOffset, Origin: OriginFence})
		}
	}

	return out
}
