// Package syntax abstracts the concrete syntax tree the expansion engine
// searches, and provides a tree-sitter backed implementation of it.
package syntax

import "fmt"

// Range is a half-open UTF-8 byte range [Start, End) in the parsed text.
type Range struct {
	Start int
	End   int
}

// Contains reports whether r fully encloses other. Both bounds are
// inclusive so a node ending exactly where other ends still contains it.
func (r Range) Contains(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Len returns the number of bytes covered by r.
func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Node is a read-only view of one node of a concrete syntax tree.
//
// A parent's range must contain the ranges of all of its children; the
// search functions in this package give undefined results otherwise.
type Node interface {
	// Kind is the grammar type tag, e.g. "if_statement".
	Kind() string
	// Range is the node's byte span in the text it was parsed from.
	Range() Range
	// IsErrorOrMissing reports whether the parser inserted this node while
	// recovering from a syntax error.
	IsErrorOrMissing() bool
	// Children returns the node's children in source order.
	Children() []Node
}

// ContainsError reports whether any node in the subtree rooted at n is an
// error or missing node.
func ContainsError(n Node) bool {
	if n == nil {
		return false
	}
	if n.IsErrorOrMissing() {
		return true
	}
	for _, child := range n.Children() {
		if ContainsError(child) {
			return true
		}
	}
	return false
}

// FindSmallestContaining returns the deepest node under root whose range
// fully contains target, or nil if root itself does not contain it.
//
// At every level only the first child that contains target is followed.
func FindSmallestContaining(root Node, target Range) Node {
	if root == nil || !root.Range().Contains(target) {
		return nil
	}
	for _, child := range root.Children() {
		if child.Range().Contains(target) {
			if found := FindSmallestContaining(child, target); found != nil {
				return found
			}
		}
	}
	return root
}

// Walk calls fn for n and each of its descendants in pre-order until fn
// returns false.
func Walk(n Node, fn func(Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, child := range n.Children() {
		if !Walk(child, fn) {
			return false
		}
	}
	return true
}
