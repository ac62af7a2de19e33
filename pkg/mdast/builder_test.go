package mdast_test

import (
	"testing"

	"github.com/yaklabco/gomdmath/pkg/mdast"
)

func TestAppendChild_Reparents(t *testing.T) {
	t.Parallel()

	a := mdast.NewNode(mdast.NodeParagraph)
	b := mdast.NewNode(mdast.NodeParagraph)
	child := mdast.NewNode(mdast.NodeText)

	mdast.AppendChild(a, child)
	mdast.AppendChild(b, child)

	if a.HasChildren() {
		t.Error("old parent still has children")
	}
	if child.Parent != b || b.FirstChild != child || b.LastChild != child {
		t.Error("child not attached to new parent")
	}
}

func TestRemoveChild_Middle(t *testing.T) {
	t.Parallel()

	parent := mdast.NewNode(mdast.NodeParagraph)
	first := mdast.NewNode(mdast.NodeText)
	middle := mdast.NewNode(mdast.NodeEmphasis)
	last := mdast.NewNode(mdast.NodeText)
	for _, n := range []*mdast.Node{first, middle, last} {
		mdast.AppendChild(parent, n)
	}

	mdast.RemoveChild(parent, middle)

	children := parent.Children()
	if len(children) != 2 || children[0] != first || children[1] != last {
		t.Fatalf("unexpected children after removal: %v", kinds(children))
	}
	if first.Next != last || last.Prev != first {
		t.Error("sibling links not repaired")
	}
	if middle.Parent != nil || middle.Next != nil || middle.Prev != nil {
		t.Error("removed node still linked")
	}
}

func TestSetFile(t *testing.T) {
	t.Parallel()

	root := buildTestTree()
	snap := mdast.NewFileSnapshot("x.md", nil)
	mdast.SetFile(root, snap)

	for n := range mdast.All(root) {
		if n.File != snap {
			t.Fatalf("%s node missing file", n.Kind)
		}
	}
}

func TestNodeKindString(t *testing.T) {
	t.Parallel()

	if got := mdast.NodeCodeSpan.String(); got != "CodeSpan" {
		t.Errorf("String() = %q", got)
	}
	if got := mdast.NodeKind(999).String(); got != "NodeKind(?)" {
		t.Errorf("String() = %q", got)
	}
	if !mdast.NewNode(mdast.NodeDirective).IsBlock() {
		t.Error("directive must be a block")
	}
	if !mdast.NewNode(mdast.NodeHTMLInline).IsInline() {
		t.Error("inline HTML must be inline")
	}
}
