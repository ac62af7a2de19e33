package rewrite

import (
	"context"
	"fmt"

	"github.com/yaklabco/gomdmath/pkg/extract"
	"github.com/yaklabco/gomdmath/pkg/mathscan"
	"github.com/yaklabco/gomdmath/pkg/mathstore"
	"github.com/yaklabco/gomdmath/pkg/mdast"
)

// RenderConfig is the state passed from extraction to whatever renders
// the rewritten text. Render never mutates the RenderConfig it is given;
// it returns an updated copy.
type RenderConfig struct {
	// Math resolves the placeholders in the rewritten text.
	Math *mathstore.Store
}

// Parser builds the structural tree of a Markdown document.
type Parser interface {
	Parse(ctx context.Context, path string, content []byte) (*mdast.FileSnapshot, error)
}

// Options configures a Renderer.
type Options struct {
	// Extract selects verbatim node kinds and math fences.
	Extract extract.Options

	// Scanner selects math delimiters.
	Scanner mathscan.Options

	// NewStore creates the store used when a RenderConfig has none.
	// Defaults to mathstore.New().
	NewStore func() *mathstore.Store
}

// DefaultOptions returns the default extraction and delimiter settings.
func DefaultOptions() Options {
	return Options{
		Extract: extract.DefaultOptions(),
		Scanner: mathscan.DefaultOptions(),
	}
}

// Renderer runs parse, extraction and rewriting for one document at a
// time. A Renderer is safe for concurrent use as long as each call gets
// its own RenderConfig.
type Renderer struct {
	parser    Parser
	collector *extract.Collector
	opts      Options
}

// NewRenderer creates a Renderer.
func NewRenderer(parser Parser, opts Options) *Renderer {
	if opts.NewStore == nil {
		opts.NewStore = func() *mathstore.Store { return mathstore.New() }
	}
	return &Renderer{
		parser:    parser,
		collector: extract.NewCollector(mathscan.New(opts.Scanner)),
		opts:      opts,
	}
}

// Output is the result of rendering one document.
type Output struct {
	// Snapshot is the parse of the original content.
	Snapshot *mdast.FileSnapshot

	// Text is the rewritten content.
	Text []byte

	// Occurrences are the display math occurrences that were found.
	Occurrences []extract.Occurrence

	// Applied and Dropped partition Occurrences.
	Applied []Replacement
	Dropped []extract.Occurrence
}

// Changed reports whether any math was replaced.
func (o *Output) Changed() bool {
	return len(o.Applied) > 0
}

// Render extracts the display math of content. The returned RenderConfig
// holds cfg's records plus one new record per applied replacement. On
// error cfg is returned unchanged.
func (r *Renderer) Render(ctx context.Context, path string, content []byte, cfg RenderConfig) (*Output, RenderConfig, error) {
	snapshot, err := r.parser.Parse(ctx, path, content)
	if err != nil {
		return nil, cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	next := cfg
	if next.Math == nil {
		next.Math = r.opts.NewStore()
	} else {
		next.Math = next.Math.Clone()
	}

	occurrences := r.collector.Document(snapshot, r.opts.Extract)
	res := Rewrite(snapshot.Content, occurrences, next.Math)

	return &Output{
		Snapshot:    snapshot,
		Text:        res.Text,
		Occurrences: occurrences,
		Applied:     res.Applied,
		Dropped:     res.Dropped,
	}, next, nil
}
