package expand

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/simonkoeck/widen/pkg/conflict"
)

func TestRewrite(t *testing.T) {
	doc := []string{
		"a",
		"b",
		"<<<<<<< ours",
		"x",
		"=======",
		"y",
		">>>>>>> theirs",
		"c",
		"d",
	}
	r := conflict.ParseLines(doc)[0]

	tests := []struct {
		name          string
		decision      Decision
		expected      []string
		expectedDelta int
	}{
		{
			name:          "zero decision is identity",
			decision:      Decision{},
			expected:      doc,
			expectedDelta: 0,
		},
		{
			name:     "before only",
			decision: Decision{Before: 1},
			expected: []string{
				"a",
				"<<<<<<< ours", "b", "x", "=======", "b", "y", ">>>>>>> theirs",
				"c", "d",
			},
			expectedDelta: 1,
		},
		{
			name:     "after only",
			decision: Decision{After: 2},
			expected: []string{
				"a", "b",
				"<<<<<<< ours", "x", "c", "d", "=======", "y", "c", "d", ">>>>>>> theirs",
			},
			expectedDelta: 2,
		},
		{
			name:     "both sides",
			decision: Decision{Before: 2, After: 1},
			expected: []string{
				"<<<<<<< ours", "a", "b", "x", "c", "=======", "a", "b", "y", "c", ">>>>>>> theirs",
				"d",
			},
			expectedDelta: 3,
		},
		{
			name:     "clamped at document bounds",
			decision: Decision{Before: 10, After: 10},
			expected: []string{
				"<<<<<<< ours", "a", "b", "x", "c", "d", "=======", "a", "b", "y", "c", "d", ">>>>>>> theirs",
			},
			expectedDelta: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, delta, err := Rewrite(doc, r, tt.decision, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Rewrite =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(tt.expected, "\n"))
			}
			if delta != tt.expectedDelta {
				t.Errorf("delta = %d, want %d", delta, tt.expectedDelta)
			}
			if len(got)-len(doc) != delta {
				t.Errorf("delta %d does not match length change %d", delta, len(got)-len(doc))
			}
		})
	}
}

func TestRewrite_DoesNotModifyInput(t *testing.T) {
	doc := []string{"a", "<<<<<<<", "x", "=======", "y", ">>>>>>>", "b"}
	snapshot := append([]string(nil), doc...)
	r := conflict.ParseLines(doc)[0]

	if _, _, err := Rewrite(doc, r, Decision{Before: 1, After: 1}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(doc, snapshot) {
		t.Errorf("input modified: %v", doc)
	}
}

func TestRewrite_AppliesOffset(t *testing.T) {
	original := []string{"p", "<<<<<<<", "x", "=======", "y", ">>>>>>>", "q"}
	r := conflict.ParseLines(original)[0]

	// Two extra lines were inserted above the region by an earlier rewrite.
	shifted := append([]string{"new1", "new2"}, original...)

	got, delta, err := Rewrite(shifted, r, Decision{Before: 1}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"new1", "new2", "<<<<<<<", "p", "x", "=======", "p", "y", ">>>>>>>", "q"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Rewrite = %v, want %v", got, expected)
	}
	if delta != 1 {
		t.Errorf("delta = %d, want 1", delta)
	}
}

func TestRewrite_EmptySides(t *testing.T) {
	doc := []string{"func f() {", "<<<<<<<", "=======", "\tcall()", ">>>>>>>", "}"}
	r := conflict.ParseLines(doc)[0]

	got, _, err := Rewrite(doc, r, Decision{Before: 1, After: 1}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{
		"<<<<<<<", "func f() {", "}", "=======", "func f() {", "\tcall()", "}", ">>>>>>>",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Rewrite = %v, want %v", got, expected)
	}
}

func TestRewrite_RefusesUnsafeWidening(t *testing.T) {
	doc := []string{
		"<<<<<<< a",
		"one",
		"=======",
		"two",
		">>>>>>> a",
		"shared",
		"<<<<<<< b",
		"three",
		"=======",
		"four",
		">>>>>>> b",
	}
	regions := conflict.ParseLines(doc)

	tests := []struct {
		name     string
		region   conflict.Region
		decision Decision
		offset   int
	}{
		{"after crosses next region", regions[0], Decision{After: 2}, 0},
		{"before crosses previous region", regions[1], Decision{Before: 2}, 0},
		{"offset misses markers", regions[1], Decision{Before: 1}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Rewrite(doc, tt.region, tt.decision, tt.offset)
			if !errors.Is(err, ErrUnsafeWiden) {
				t.Errorf("expected ErrUnsafeWiden, got %v", err)
			}
		})
	}
}

func TestRewrite_RegionOutsideDocument(t *testing.T) {
	doc := []string{"<<<<<<<", "x", "=======", "y", ">>>>>>>"}
	r := conflict.ParseLines(doc)[0]

	if _, _, err := Rewrite(doc, r, Decision{Before: 1}, 3); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("expected ErrLineOutOfRange, got %v", err)
	}
}

func TestDecision_IsZero(t *testing.T) {
	tests := []struct {
		d        Decision
		expected bool
	}{
		{Decision{}, true},
		{Decision{Before: 1}, false},
		{Decision{After: 1}, false},
		{Decision{Before: -1, After: 0}, true},
	}
	for _, tt := range tests {
		if got := tt.d.IsZero(); got != tt.expected {
			t.Errorf("%+v.IsZero() = %v, want %v", tt.d, got, tt.expected)
		}
	}
}
