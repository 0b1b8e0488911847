package expand

import (
	"fmt"

	"github.com/simonkoeck/widen/pkg/conflict"
)

// Decision is how many common lines to pull into a region on each side.
// The zero value means no expansion.
type Decision struct {
	Before int
	After  int
}

// IsZero reports whether d leaves the region as it is.
func (d Decision) IsZero() bool {
	return d.Before <= 0 && d.After <= 0
}

// Rewrite widens region r inside doc by d and returns the new document and
// the change in line count. offset is the accumulated line delta of earlier
// rewrites in the same document; r's indices are shifted by it first.
//
// The lines pulled in sit outside the original markers and are therefore
// common to both sides, so they are copied into the ours half and the theirs
// half alike. doc is not modified.
func Rewrite(doc []string, r conflict.Region, d Decision, offset int) ([]string, int, error) {
	start, mid, end := r.Start+offset, r.Mid+offset, r.End+offset

	if start < 0 || end >= len(doc) || start >= mid || mid >= end {
		return nil, 0, fmt.Errorf("%w: region %d-%d outside %d lines", ErrLineOutOfRange, start, end, len(doc))
	}
	if !conflict.IsStartMarker(doc[start]) || !conflict.IsMidMarker(doc[mid]) || !conflict.IsEndMarker(doc[end]) {
		return nil, 0, fmt.Errorf("%w: markers not found at lines %d/%d/%d", ErrUnsafeWiden, start, mid, end)
	}

	newStart := max(0, start-max(0, d.Before))
	newEnd := min(len(doc)-1, end+max(0, d.After))

	prepend := doc[newStart:start]
	appendix := doc[end+1 : newEnd+1]
	for _, line := range append(append([]string(nil), prepend...), appendix...) {
		if conflict.IsMarker(line) {
			return nil, 0, fmt.Errorf("%w: widening would cross marker %q", ErrUnsafeWiden, line)
		}
	}

	ours := doc[start+1 : mid]
	theirs := doc[mid+1 : end]

	block := make([]string, 0, 3+2*len(prepend)+2*len(appendix)+len(ours)+len(theirs))
	block = append(block, doc[start])
	block = append(block, prepend...)
	block = append(block, ours...)
	block = append(block, appendix...)
	block = append(block, doc[mid])
	block = append(block, prepend...)
	block = append(block, theirs...)
	block = append(block, appendix...)
	block = append(block, doc[end])

	out := make([]string, 0, len(doc)-(newEnd-newStart+1)+len(block))
	out = append(out, doc[:newStart]...)
	out = append(out, block...)
	out = append(out, doc[newEnd+1:]...)

	delta := len(block) - (newEnd - newStart + 1)
	return out, delta, nil
}
