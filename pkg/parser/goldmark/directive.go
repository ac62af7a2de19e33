package goldmark

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Directives is a goldmark extension that parses block directives:
//
//	@name(args)
//
//	@name(args) {
//	  Markdown body
//	}
//
// The body of a container directive is parsed as ordinary block content.
//
//nolint:gochecknoglobals // Stateless extension value, like goldmark's extension.GFM.
var Directives goldmark.Extender = &directiveExtension{}

// Runs after fenced code (700) and blockquotes (800), before HTML blocks (900).
const directivePriority = 850

// KindDirective is the goldmark node kind of a block directive.
//
//nolint:gochecknoglobals // goldmark node kinds are registered once at init.
var KindDirective = ast.NewNodeKind("Directive")

// Directive is a goldmark block node for @name(args) directives.
type Directive struct {
	ast.BaseBlock

	// Name is the directive name without '@'.
	Name []byte

	// Args is the raw text between the parentheses.
	Args []byte

	// Head covers '@' through the closing ')' or the opening '{'.
	Head text.Segment

	// Closing covers the '}' that ends a container directive. Zero if the
	// directive is not a container or was never closed.
	Closing text.Segment

	// Container is true when the directive opened a body.
	Container bool
}

// Kind implements ast.Node.
func (n *Directive) Kind() ast.NodeKind {
	return KindDirective
}

// Dump implements ast.Node.
func (n *Directive) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name": string(n.Name),
		"Args": string(n.Args),
	}, nil)
}

type directiveExtension struct{}

func (e *directiveExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		util.Prioritized(&directiveParser{}, directivePriority),
	))
}

type directiveParser struct{}

func (p *directiveParser) Trigger() []byte {
	return []byte{'@'}
}

func (p *directiveParser) Open(_ ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || pc.BlockIndent() > 3 {
		return nil, parser.NoChildren
	}

	head, ok := parseDirectiveHead(line[pos:])
	if !ok {
		return nil, parser.NoChildren
	}

	start := segment.Start + pos
	node := &Directive{
		Name:      head.name,
		Args:      head.args,
		Head:      text.NewSegment(start, start+head.length),
		Container: head.container,
	}

	reader.Advance(segment.Len() - trailingNewline(line))

	if head.container {
		return node, parser.HasChildren
	}
	return node, parser.NoChildren
}

func (p *directiveParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	d, ok := node.(*Directive)
	if !ok || !d.Container {
		return parser.Close
	}

	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}

	if bytes.Equal(bytes.TrimSpace(line), []byte{'}'}) {
		brace := segment.Start + bytes.IndexByte(line, '}')
		d.Closing = text.NewSegment(brace, brace+1)
		reader.Advance(segment.Len() - trailingNewline(line))
		return parser.Close
	}

	return parser.Continue | parser.HasChildren
}

func (p *directiveParser) Close(_ ast.Node, _ text.Reader, _ parser.Context) {}

func (p *directiveParser) CanInterruptParagraph() bool {
	return false
}

func (p *directiveParser) CanAcceptIndentedLine() bool {
	return false
}

type directiveHead struct {
	name      []byte
	args      []byte
	length    int
	container bool
}

// parseDirectiveHead recognises "@name", "@name(args)" and either form
// followed by "{". Nothing but whitespace may follow.
func parseDirectiveHead(line []byte) (directiveHead, bool) {
	if len(line) < 2 || line[0] != '@' || !util.IsAlphaNumeric(line[1]) {
		return directiveHead{}, false
	}

	i := 2
	for i < len(line) && isDirectiveNameChar(line[i]) {
		i++
	}
	head := directiveHead{name: line[1:i]}

	if i < len(line) && line[i] == '(' {
		end := bytes.IndexByte(line[i+1:], ')')
		if end < 0 {
			return directiveHead{}, false
		}
		args := line[i+1 : i+1+end]
		if bytes.IndexByte(args, '(') >= 0 {
			return directiveHead{}, false
		}
		head.args = args
		i += end + 2
	}

	j := skipBlanks(line, i)
	if j < len(line) && line[j] == '{' {
		head.container = true
		i = j + 1
		j = skipBlanks(line, i)
	}

	if !util.IsBlank(line[j:]) {
		return directiveHead{}, false
	}

	head.length = i
	return head, true
}

func isDirectiveNameChar(c byte) bool {
	return util.IsAlphaNumeric(c) || c == '-' || c == '_'
}

func skipBlanks(line []byte, i int) int {
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}

func trailingNewline(line []byte) int {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		return 1
	}
	return 0
}
