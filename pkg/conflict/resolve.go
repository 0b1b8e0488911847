package conflict

import (
	"strings"
)

// Side selects one half of a conflict region.
type Side int

const (
	Ours Side = iota
	Theirs
)

func (s Side) String() string {
	if s == Theirs {
		return "theirs"
	}
	return "ours"
}

// Resolve flattens text as if every region had been resolved by picking side.
// Marker lines are dropped; lines outside any region are always kept.
// regions must come from Parse on the same text.
func Resolve(text string, regions []Region, side Side) string {
	return strings.Join(ResolveLines(SplitLines(text), regions, side), "\n")
}

// ResolveLines is Resolve over pre-split lines.
func ResolveLines(lines []string, regions []Region, side Side) []string {
	markers := make(map[int]byte, len(regions)*3)
	for _, r := range regions {
		markers[r.Start] = '<'
		markers[r.Mid] = '='
		markers[r.End] = '>'
	}

	out := make([]string, 0, len(lines))
	inConflict, inTheirs := false, false

	for i, line := range lines {
		switch markers[i] {
		case '<':
			inConflict, inTheirs = true, false
			continue
		case '=':
			inTheirs = true
			continue
		case '>':
			inConflict, inTheirs = false, false
			continue
		}

		if !inConflict || inTheirs == (side == Theirs) {
			out = append(out, line)
		}
	}

	return out
}
