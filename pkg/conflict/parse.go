// Package conflict finds git conflict regions in text and flattens text to
// one side of every conflict.
package conflict

import (
	"strings"
)

// Marker prefixes as written by git. Anything after the prefix (branch names,
// commit labels) is ignored when matching.
const (
	StartMarker = "<<<<<<<"
	MidMarker   = "======="
	EndMarker   = ">>>>>>>"
)

// Region is one well-formed conflict triad.
type Region struct {
	Start int // line index of the <<<<<<< marker
	Mid   int // line index of the ======= marker
	End   int // line index of the >>>>>>> marker

	Ours   string // lines strictly between Start and Mid, joined with "\n"
	Theirs string // lines strictly between Mid and End, joined with "\n"

	OursLabel   string
	TheirsLabel string
}

// OursLineCount returns the number of lines on the ours side.
// It is derived from the marker positions because an empty Ours string
// may mean either zero lines or a single blank line.
func (r Region) OursLineCount() int {
	return r.Mid - r.Start - 1
}

// TheirsLineCount returns the number of lines on the theirs side.
func (r Region) TheirsLineCount() int {
	return r.End - r.Mid - 1
}

// LineCount returns the number of lines the region occupies in the
// original text, markers included.
func (r Region) LineCount() int {
	return r.End - r.Start + 1
}

// SideLineCount returns the line count of the given side.
func (r Region) SideLineCount(side Side) int {
	if side == Theirs {
		return r.TheirsLineCount()
	}
	return r.OursLineCount()
}

// SideContent returns the content of the given side.
func (r Region) SideContent(side Side) string {
	if side == Theirs {
		return r.Theirs
	}
	return r.Ours
}

// Parse returns every well-formed conflict region in text, in document order.
//
// A start marker without a following mid and end marker is treated as plain
// text and scanning resumes on the next line.
func Parse(text string) []Region {
	return ParseLines(SplitLines(text))
}

// ParseLines is Parse over text that has already been split with SplitLines.
func ParseLines(lines []string) []Region {
	var regions []Region

	for i := 0; i < len(lines); i++ {
		if !IsStartMarker(lines[i]) {
			continue
		}

		mid := findPrefix(lines, i+1, MidMarker)
		if mid < 0 {
			continue
		}
		end := findPrefix(lines, mid+1, EndMarker)
		if end < 0 {
			continue
		}

		regions = append(regions, Region{
			Start:       i,
			Mid:         mid,
			End:         end,
			Ours:        strings.Join(lines[i+1:mid], "\n"),
			Theirs:      strings.Join(lines[mid+1:end], "\n"),
			OursLabel:   parseLabel(lines[i], StartMarker),
			TheirsLabel: parseLabel(lines[end], EndMarker),
		})
		i = end
	}

	return regions
}

// SplitLines splits text on "\n". A trailing newline yields a final empty
// element so that strings.Join(SplitLines(s), "\n") == s.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// IsStartMarker reports whether line opens a conflict.
func IsStartMarker(line string) bool {
	return strings.HasPrefix(line, StartMarker)
}

// IsMidMarker reports whether line separates ours from theirs.
func IsMidMarker(line string) bool {
	return strings.HasPrefix(line, MidMarker)
}

// IsEndMarker reports whether line closes a conflict.
func IsEndMarker(line string) bool {
	return strings.HasPrefix(line, EndMarker)
}

// IsMarker reports whether line starts with any of the three marker prefixes.
func IsMarker(line string) bool {
	return strings.HasPrefix(line, StartMarker) ||
		strings.HasPrefix(line, MidMarker) ||
		strings.HasPrefix(line, EndMarker)
}

// HasMarkers is a quick check for at least one well-formed region.
func HasMarkers(text string) bool {
	if !strings.Contains(text, StartMarker) {
		return false
	}
	return len(Parse(text)) > 0
}

func findPrefix(lines []string, from int, prefix string) int {
	for j := from; j < len(lines); j++ {
		if strings.HasPrefix(lines[j], prefix) {
			return j
		}
	}
	return -1
}

func parseLabel(line, prefix string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, prefix))
}
