// Package goldmark parses Markdown with the goldmark library and maps the
// result onto the mdast tree, recording the byte extent of every node.
package goldmark

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gomdmath/pkg/mdast"
)

// Flavor identifies the Markdown flavor supported by the parser.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Parser turns Markdown bytes into an mdast.FileSnapshot using goldmark.
type Parser struct {
	flavor     string
	directives bool
	md         goldmark.Markdown
}

// Option configures a Parser.
type Option func(*Parser)

// WithDirectives toggles parsing of @name(args) block directives.
func WithDirectives(enabled bool) Option {
	return func(p *Parser) {
		p.directives = enabled
	}
}

// New creates a new goldmark-based parser for the given flavor.
// Supported flavors are "commonmark" and "gfm".
// Invalid flavors default to "commonmark". Directives are enabled by default.
func New(flavor string, opts ...Option) *Parser {
	p := &Parser{
		flavor:     flavorOrDefault(flavor),
		directives: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.md = newGoldmarkInstance(p.flavor, p.directives)
	return p
}

// Flavor returns the configured Markdown flavor.
func (p *Parser) Flavor() string {
	return p.flavor
}

// Directives reports whether block directives are parsed.
func (p *Parser) Directives() bool {
	return p.directives
}

// Parse converts raw Markdown bytes into a FileSnapshot whose nodes carry
// byte ranges into the snapshot's own copy of content.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*mdast.FileSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	snapshot := mdast.NewFileSnapshot(path, copyContent(content))

	reader := text.NewReader(snapshot.Content)
	gmDoc := p.md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	snapshot.Root = newMapper(snapshot.Content).mapDocument(gmDoc)
	mdast.SetFile(snapshot.Root, snapshot)

	return snapshot, nil
}

// flavorOrDefault returns the flavor if valid, otherwise defaults to CommonMark.
func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string, directives bool) goldmark.Markdown {
	var exts []goldmark.Extender

	if flavor == FlavorGFM {
		exts = append(exts, extension.GFM)
	}
	if directives {
		exts = append(exts, Directives)
	}

	return goldmark.New(goldmark.WithExtensions(exts...))
}

func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}
