package mdast

import (
	"errors"
	"iter"
)

// SkipChildren may be returned by a WalkFunc to skip the node's subtree.
// Walk does not return it to the caller.
//
//nolint:gochecknoglobals // Sentinel error.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for each node during traversal.
// Returning SkipChildren prunes the subtree; any other error stops the walk.
type WalkFunc func(n *Node) error

// Walk visits root and its descendants in document (pre-)order.
// It uses an explicit stack so deeply nested documents cannot exhaust
// the goroutine stack.
func Walk(root *Node, fn WalkFunc) error {
	if root == nil {
		return nil
	}

	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		err := fn(n)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}

		// Push children in reverse so the first child is visited next.
		for child := n.LastChild; child != nil; child = child.Prev {
			stack = append(stack, child)
		}
	}

	return nil
}

// All returns an iterator over root and its descendants in document order.
func All(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		errStop := errors.New("stop")
		_ = Walk(root, func(n *Node) error {
			if !yield(n) {
				return errStop
			}
			return nil
		})
	}
}

// FindAll returns every node for which pred returns true, in document order.
func FindAll(root *Node, pred func(*Node) bool) []*Node {
	var out []*Node
	for n := range All(root) {
		if pred(n) {
			out = append(out, n)
		}
	}
	return out
}

// FindByKind returns every node of the given kind, in document order.
func FindByKind(root *Node, kind NodeKind) []*Node {
	return FindAll(root, func(n *Node) bool { return n.Kind == kind })
}
