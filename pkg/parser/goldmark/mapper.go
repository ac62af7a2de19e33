package goldmark

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/yaklabco/gomdmath/pkg/mdast"
)

// mapper converts a goldmark AST into an mdast.Node tree.
type mapper struct {
	content []byte
}

func newMapper(content []byte) *mapper {
	return &mapper{content: content}
}

func (m *mapper) mapDocument(gmDoc ast.Node) *mdast.Node {
	doc := mdast.NewDocument()
	m.mapChildren(gmDoc, doc)
	doc.Range = mdast.Span(0, len(m.content))
	return doc
}

// mapChildren maps all children of gmParent and widens parent.Range to
// cover them.
func (m *mapper) mapChildren(gmParent ast.Node, parent *mdast.Node) {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		node := m.mapNode(child)
		mdast.AppendChild(parent, node)
		parent.Range = parent.Range.Union(node.Range)

		if t, ok := child.(*ast.Text); ok {
			switch {
			case t.HardLineBreak():
				mdast.AppendChild(parent, mdast.NewNode(mdast.NodeHardBreak))
			case t.SoftLineBreak():
				mdast.AppendChild(parent, mdast.NewNode(mdast.NodeSoftBreak))
			}
		}
	}
}

// mapNode converts a single goldmark node to an mdast.Node.
func (m *mapper) mapNode(gmNode ast.Node) *mdast.Node {
	switch gmn := gmNode.(type) {
	case *ast.Heading:
		node := m.mapContainer(mdast.NodeHeading, gmn)
		node.Block = &mdast.BlockAttrs{HeadingLevel: gmn.Level}
		return node
	case *ast.Paragraph, *ast.TextBlock:
		return m.mapContainer(mdast.NodeParagraph, gmn)
	case *ast.List:
		return m.mapContainer(mdast.NodeList, gmn)
	case *ast.ListItem:
		return m.mapContainer(mdast.NodeListItem, gmn)
	case *ast.Blockquote:
		return m.mapContainer(mdast.NodeBlockquote, gmn)
	case *ast.ThematicBreak:
		return m.mapContainer(mdast.NodeThematicBreak, gmn)
	case *ast.FencedCodeBlock:
		return m.mapFencedCodeBlock(gmn)
	case *ast.CodeBlock:
		return m.mapIndentedCodeBlock(gmn)
	case *ast.HTMLBlock:
		return m.mapHTMLBlock(gmn)
	case *Directive:
		return m.mapDirective(gmn)

	case *ast.Text:
		node := mdast.NewNode(mdast.NodeText)
		node.Range = mdast.Span(gmn.Segment.Start, gmn.Segment.Stop)
		node.Inline = &mdast.InlineAttrs{Text: gmn.Value(m.content)}
		return node
	case *ast.String:
		node := mdast.NewNode(mdast.NodeText)
		node.Inline = &mdast.InlineAttrs{Text: gmn.Value}
		return node
	case *ast.Emphasis:
		kind := mdast.NodeEmphasis
		if gmn.Level == 2 {
			kind = mdast.NodeStrong
		}
		return m.mapContainer(kind, gmn)
	case *ast.CodeSpan:
		return m.mapCodeSpan(gmn)
	case *ast.Link:
		node := m.mapContainer(mdast.NodeLink, gmn)
		node.Inline = &mdast.InlineAttrs{Destination: string(gmn.Destination), Tail: m.linkTail(gmn)}
		return node
	case *ast.Image:
		node := m.mapContainer(mdast.NodeImage, gmn)
		node.Inline = &mdast.InlineAttrs{Destination: string(gmn.Destination), Tail: m.linkTail(gmn)}
		return node
	case *ast.AutoLink:
		node := mdast.NewNode(mdast.NodeAutoLink)
		node.Inline = &mdast.InlineAttrs{
			Text:        gmn.Label(m.content),
			Destination: string(gmn.URL(m.content)),
		}
		return node
	case *ast.RawHTML:
		return m.mapRawHTML(gmn)

	case *east.Strikethrough:
		return m.mapContainer(mdast.NodeStrikethrough, gmn)
	case *east.Table:
		return m.mapContainer(mdast.NodeTable, gmn)
	case *east.TableHeader, *east.TableRow:
		return m.mapContainer(mdast.NodeTableRow, gmn)
	case *east.TableCell:
		return m.mapContainer(mdast.NodeTableCell, gmn)

	default:
		return m.mapContainer(mdast.NodeRaw, gmNode)
	}
}

// mapContainer creates a node of kind whose range covers the goldmark
// node's own lines and all of its children.
func (m *mapper) mapContainer(kind mdast.NodeKind, gmNode ast.Node) *mdast.Node {
	node := mdast.NewNode(kind)
	node.Range = m.blockLines(gmNode)
	m.mapChildren(gmNode, node)
	return node
}

// blockLines returns the span of a block node's Lines().
// Inline nodes have no lines and yield NoRange.
func (m *mapper) blockLines(gmNode ast.Node) mdast.SourceRange {
	if gmNode.Type() == ast.TypeInline {
		return mdast.NoRange
	}

	lines := gmNode.Lines()
	if lines.Len() == 0 {
		return mdast.NoRange
	}

	return mdast.Span(lines.At(0).Start, m.trimNewline(lines.At(lines.Len()-1).Stop))
}

// mapCodeSpan covers the code span including its backtick runs.
func (m *mapper) mapCodeSpan(codeSpan *ast.CodeSpan) *mdast.Node {
	node := mdast.NewNode(mdast.NodeCodeSpan)

	inner := mdast.NoRange
	var text []byte
	for child := codeSpan.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			inner = inner.Union(mdast.Span(t.Segment.Start, t.Segment.Stop))
			text = append(text, t.Value(m.content)...)
		}
	}
	node.Inline = &mdast.InlineAttrs{Text: text}

	if !inner.IsValid() {
		return node
	}

	// goldmark strips one space of padding on each side.
	start := inner.StartOffset
	if start > 1 && m.content[start-1] == ' ' && m.content[start-2] == '`' {
		start--
	}
	opener := 0
	for start > 0 && m.content[start-1] == '`' {
		start--
		opener++
	}

	end := inner.EndOffset
	if end+1 < len(m.content) && m.content[end] == ' ' && m.content[end+1] == '`' {
		end++
	}
	for closer := 0; closer < opener && end < len(m.content) && m.content[end] == '`'; closer++ {
		end++
	}

	node.Range = mdast.Span(start, end)
	return node
}

// mapFencedCodeBlock covers the block from the first opening fence
// character through the closing fence, when there is one.
func (m *mapper) mapFencedCodeBlock(codeBlock *ast.FencedCodeBlock) *mdast.Node {
	node := mdast.NewNode(mdast.NodeCodeBlock)
	attrs := &mdast.CodeBlockAttrs{Content: m.blockLines(codeBlock)}
	node.Block = &mdast.BlockAttrs{CodeBlock: attrs}

	if codeBlock.Info != nil {
		attrs.Info = string(codeBlock.Info.Segment.Value(m.content))
		attrs.Language = string(codeBlock.Language(m.content))
	}

	// Locate the opening fence by walking back from the info string, or
	// from the end of the line before the first content line.
	var anchor int
	switch {
	case codeBlock.Info != nil:
		anchor = codeBlock.Info.Segment.Start
	case codeBlock.Lines().Len() > 0:
		anchor = m.lineStart(codeBlock.Lines().At(0).Start) - 1
		if anchor > 0 && m.content[anchor-1] == '\r' {
			anchor--
		}
	default:
		// An empty fence without info has no bytes worth excluding.
		return node
	}

	pos := anchor
	for pos > 0 && isBlank(m.content[pos-1]) {
		pos--
	}
	fenceEnd := pos
	for pos > 0 && isFenceChar(m.content[pos-1]) {
		pos--
	}
	if pos == fenceEnd {
		return node
	}

	attrs.FenceChar = m.content[pos]
	attrs.FenceLength = fenceEnd - pos
	for i := pos; i < fenceEnd; i++ {
		if m.content[i] != attrs.FenceChar {
			attrs.FenceLength = i - pos
			break
		}
	}

	// Where the closing fence would start.
	next := m.lineEnd(fenceEnd)
	if attrs.Content.IsValid() {
		next = codeBlock.Lines().At(codeBlock.Lines().Len() - 1).Stop
	}
	end := m.trimNewline(next)
	if closing, ok := m.closingFence(next, attrs.FenceChar, attrs.FenceLength); ok {
		end = closing
	}

	node.Range = mdast.Span(pos, end)
	return node
}

// closingFence reports the end of a closing fence line starting at pos.
// Container markup ('>' and indentation) before the fence is skipped.
func (m *mapper) closingFence(pos int, char byte, length int) (int, bool) {
	if pos <= 0 || pos >= len(m.content) || m.content[pos-1] != '\n' {
		return 0, false
	}

	i := pos
	for i < len(m.content) && (isBlank(m.content[i]) || m.content[i] == '>') {
		i++
	}
	run := i
	for i < len(m.content) && m.content[i] == char {
		i++
	}
	if i-run < length {
		return 0, false
	}
	end := i
	for i < len(m.content) && isBlank(m.content[i]) {
		i++
	}
	if i < len(m.content) && m.content[i] != '\n' && m.content[i] != '\r' {
		return 0, false
	}

	return end, true
}

func (m *mapper) mapIndentedCodeBlock(codeBlock *ast.CodeBlock) *mdast.Node {
	node := mdast.NewNode(mdast.NodeCodeBlock)
	node.Range = m.blockLines(codeBlock)
	node.Block = &mdast.BlockAttrs{CodeBlock: &mdast.CodeBlockAttrs{
		Indented: true,
		Content:  node.Range,
	}}
	return node
}

func (m *mapper) mapHTMLBlock(block *ast.HTMLBlock) *mdast.Node {
	node := mdast.NewNode(mdast.NodeHTMLBlock)
	node.Range = m.blockLines(block)
	if block.HasClosure() {
		closure := block.ClosureLine
		node.Range = node.Range.Union(mdast.Span(closure.Start, m.trimNewline(closure.Stop)))
	}
	return node
}

func (m *mapper) mapRawHTML(raw *ast.RawHTML) *mdast.Node {
	node := mdast.NewNode(mdast.NodeHTMLInline)
	for i := range raw.Segments.Len() {
		seg := raw.Segments.At(i)
		node.Range = node.Range.Union(mdast.Span(seg.Start, seg.Stop))
	}
	return node
}

func (m *mapper) mapDirective(d *Directive) *mdast.Node {
	node := mdast.NewNode(mdast.NodeDirective)
	head := mdast.Span(d.Head.Start, d.Head.Stop)
	node.Directive = &mdast.DirectiveAttrs{
		Name:      string(d.Name),
		Args:      string(d.Args),
		Head:      head,
		Container: d.Container,
	}
	node.Range = head
	m.mapChildren(d, node)
	if d.Closing.Stop > 0 {
		node.Range = node.Range.Union(mdast.Span(d.Closing.Start, d.Closing.Stop))
	}
	return node
}

// linkTail locates `](destination "title")` after the label of an inline
// link or image. goldmark keeps no position for the destination, so the
// tail is found from the end of the label's last text.
func (m *mapper) linkTail(link ast.Node) mdast.SourceRange {
	last := link.LastChild()
	if last == nil {
		return mdast.NoRange
	}
	end := m.contentEnd(last)
	if end < 0 {
		return mdast.NoRange
	}

	// Skip closing emphasis, strikethrough and code span delimiters.
	for end < len(m.content) && strings.IndexByte("*_~` ", m.content[end]) >= 0 {
		end++
	}
	if end+1 >= len(m.content) || m.content[end] != ']' || m.content[end+1] != '(' {
		return mdast.NoRange
	}

	closing := m.closingParen(end + 2)
	if closing < 0 {
		return mdast.NoRange
	}
	return mdast.Span(end, closing+1)
}

// contentEnd returns the offset just past the last source byte of an
// inline node, or -1 when goldmark recorded none.
func (m *mapper) contentEnd(n ast.Node) int {
	switch n := n.(type) {
	case *ast.Text:
		return n.Segment.Stop
	case *ast.RawHTML:
		if n.Segments.Len() == 0 {
			return -1
		}
		return n.Segments.At(n.Segments.Len() - 1).Stop
	case *ast.Link, *ast.Image:
		if tail := m.linkTail(n); tail.IsValid() {
			return tail.EndOffset
		}
		return -1
	}
	if last := n.LastChild(); last != nil {
		return m.contentEnd(last)
	}
	return -1
}

// closingParen returns the offset of the ')' that closes a link
// destination and title starting at pos, or -1. Nested parentheses,
// backslash escapes, <...> destinations and quoted titles are skipped.
func (m *mapper) closingParen(pos int) int {
	depth := 0
	for i := pos; i < len(m.content); i++ {
		c := m.content[i]
		switch {
		case c == '\\':
			i++
		case c == '<' && i == pos:
			end := bytes.IndexByte(m.content[i:], '>')
			if end < 0 {
				return -1
			}
			i += end
		case (c == '"' || c == '\'') && i > pos && isSpace(m.content[i-1]):
			end := bytes.IndexByte(m.content[i+1:], c)
			if end < 0 {
				return -1
			}
			i += end + 1
		case c == '(':
			depth++
		case c == ')':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// lineStart returns the offset of the first byte of the line holding pos.
func (m *mapper) lineStart(pos int) int {
	for pos > 0 && m.content[pos-1] != '\n' {
		pos--
	}
	return pos
}

// lineEnd returns the offset just past the newline ending the line that
// holds pos, or len(content).
func (m *mapper) lineEnd(pos int) int {
	if idx := bytes.IndexByte(m.content[pos:], '\n'); idx >= 0 {
		return pos + idx + 1
	}
	return len(m.content)
}

// trimNewline moves an exclusive end offset back over a trailing line ending.
func (m *mapper) trimNewline(end int) int {
	if end > 0 && m.content[end-1] == '\n' {
		end--
	}
	if end > 0 && m.content[end-1] == '\r' {
		end--
	}
	return end
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

func isSpace(c byte) bool {
	return isBlank(c) || c == '\n' || c == '\r'
}

func isFenceChar(c byte) bool {
	return c == '`' || c == '~'
}
