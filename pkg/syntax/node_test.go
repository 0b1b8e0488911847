package syntax

import (
	"testing"
)

type fakeNode struct {
	kind     string
	rng      Range
	broken   bool
	children []Node
}

func (f *fakeNode) Kind() string           { return f.kind }
func (f *fakeNode) Range() Range           { return f.rng }
func (f *fakeNode) IsErrorOrMissing() bool { return f.broken }
func (f *fakeNode) Children() []Node       { return f.children }

func node(kind string, start, end int, children ...Node) *fakeNode {
	return &fakeNode{kind: kind, rng: Range{Start: start, End: end}, children: children}
}

func TestRangeContains(t *testing.T) {
	outer := Range{Start: 10, End: 20}
	tests := []struct {
		name     string
		inner    Range
		expected bool
	}{
		{"identical", Range{10, 20}, true},
		{"strictly inside", Range{12, 18}, true},
		{"shares start", Range{10, 15}, true},
		{"shares end", Range{15, 20}, true},
		{"starts before", Range{9, 15}, false},
		{"ends after", Range{15, 21}, false},
		{"empty at end", Range{20, 20}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.inner); got != tt.expected {
				t.Errorf("%v.Contains(%v) = %v, want %v", outer, tt.inner, got, tt.expected)
			}
		})
	}
}

func TestFindSmallestContaining(t *testing.T) {
	stmt := node("statement", 12, 18)
	block := node("block", 10, 30, stmt, node("statement", 20, 28))
	root := node("file", 0, 100, node("decl", 0, 8), block)

	tests := []struct {
		name     string
		target   Range
		expected Node
	}{
		{"outside root", Range{90, 110}, nil},
		{"root only", Range{5, 15}, root},
		{"block spanning two statements", Range{14, 24}, block},
		{"exact statement", Range{12, 18}, stmt},
		{"inside statement", Range{13, 14}, stmt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindSmallestContaining(root, tt.target)
			if got != tt.expected {
				t.Errorf("expected %v, got %v", describe(tt.expected), describe(got))
			}
		})
	}
}

func TestFindSmallestContaining_FirstChildWins(t *testing.T) {
	// Overlapping siblings violate the tree contract; the first match in
	// source order is followed.
	first := node("first", 0, 10)
	second := node("second", 0, 10)
	root := node("root", 0, 10, first, second)

	if got := FindSmallestContaining(root, Range{2, 4}); got != first {
		t.Errorf("expected first child, got %s", describe(got))
	}
}

func TestFindSmallestContaining_NilRoot(t *testing.T) {
	if got := FindSmallestContaining(nil, Range{0, 1}); got != nil {
		t.Errorf("expected nil, got %s", describe(got))
	}
}

func TestContainsError(t *testing.T) {
	clean := node("file", 0, 10, node("a", 0, 5), node("b", 5, 10))
	if ContainsError(clean) {
		t.Error("clean tree reported an error")
	}

	missing := &fakeNode{kind: ")", rng: Range{9, 9}, broken: true}
	deep := node("file", 0, 10, node("a", 0, 5), node("b", 5, 10, node("c", 6, 9, missing)))
	if !ContainsError(deep) {
		t.Error("expected nested missing node to be found")
	}

	if ContainsError(nil) {
		t.Error("nil tree has no errors")
	}
}

func TestWalk(t *testing.T) {
	root := node("file", 0, 10, node("a", 0, 5, node("a1", 0, 2)), node("b", 5, 10))

	var kinds []string
	Walk(root, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	if got := len(kinds); got != 4 {
		t.Fatalf("expected 4 nodes, got %d (%v)", got, kinds)
	}
	if kinds[0] != "file" || kinds[1] != "a" || kinds[2] != "a1" || kinds[3] != "b" {
		t.Errorf("unexpected pre-order: %v", kinds)
	}

	visited := 0
	Walk(root, func(n Node) bool {
		visited++
		return n.Kind() != "a"
	})
	if visited != 2 {
		t.Errorf("expected walk to stop after 2 nodes, visited %d", visited)
	}
}

func describe(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Kind() + n.Range().String()
}
