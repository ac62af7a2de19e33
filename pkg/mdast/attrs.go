package mdast

// BlockAttrs holds attributes for block-level nodes.
type BlockAttrs struct {
	// HeadingLevel is the heading level (1-6) for NodeHeading.
	HeadingLevel int

	// CodeBlock holds code block attributes for NodeCodeBlock.
	CodeBlock *CodeBlockAttrs
}

// CodeBlockAttrs holds attributes for code block nodes.
type CodeBlockAttrs struct {
	// FenceChar is the fence character ('`' or '~'). Zero for indented blocks.
	FenceChar byte

	// FenceLength is the number of fence characters.
	FenceLength int

	// Info is the info string as written after the opening fence.
	Info string

	// Language is the first word of Info.
	Language string

	// Indented is true for indented code blocks (vs fenced).
	Indented bool

	// Content is the byte span of the code lines, fences excluded.
	Content SourceRange
}

// InlineAttrs holds attributes for inline-level nodes.
type InlineAttrs struct {
	// Text holds the text content for NodeText and NodeCodeSpan.
	Text []byte

	// Destination is the URL for NodeLink, NodeImage and NodeAutoLink.
	Destination string

	// Tail spans `](destination "title")` of an inline NodeLink or
	// NodeImage. It is empty for reference links and for links whose
	// label has no text to anchor on.
	Tail SourceRange
}

// DirectiveAttrs holds attributes for block directive nodes.
type DirectiveAttrs struct {
	// Name is the directive name without the leading '@'.
	Name string

	// Args is the raw argument text between the parentheses.
	Args string

	// Head is the byte span of the directive line, '@' through the optional '{'.
	Head SourceRange

	// Container is true when the directive opened a '{' ... '}' body.
	Container bool
}
