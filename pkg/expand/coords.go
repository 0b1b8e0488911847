package expand

import (
	"fmt"

	"github.com/simonkoeck/widen/pkg/conflict"
	"github.com/simonkoeck/widen/pkg/syntax"
)

// LineSpan is an inclusive range of line indices.
type LineSpan struct {
	Start int
	End   int
}

// ResolvedStartLine returns the line at which the content of regions[idx]
// begins in the text produced by conflict.Resolve(text, regions, side).
//
// Every earlier region contributes its resolved line count for side rather
// than the number of lines it occupies between its markers.
func ResolvedStartLine(regions []conflict.Region, idx int, side conflict.Side) (int, error) {
	if idx < 0 || idx >= len(regions) {
		return 0, fmt.Errorf("%w: region %d of %d", ErrLineOutOfRange, idx, len(regions))
	}

	line, cursor := 0, 0
	for _, r := range regions[:idx] {
		line += r.Start - cursor
		line += r.SideLineCount(side)
		cursor = r.End + 1
	}
	line += regions[idx].Start - cursor

	return line, nil
}

// LineSpanToByteRange converts lineCount lines starting at startLine into a
// byte range over lines joined by "\n". The trailing newline of the last
// line is excluded. A zero-line span is the empty range at the start of
// startLine.
func LineSpanToByteRange(lines []string, startLine, lineCount int) (syntax.Range, error) {
	if startLine < 0 || startLine >= len(lines) {
		return syntax.Range{}, fmt.Errorf("%w: line %d of %d", ErrLineOutOfRange, startLine, len(lines))
	}
	if lineCount < 0 || startLine+lineCount > len(lines) {
		return syntax.Range{}, fmt.Errorf("%w: %d lines from %d of %d", ErrLineOutOfRange, lineCount, startLine, len(lines))
	}

	start := 0
	for _, line := range lines[:startLine] {
		start += len(line) + 1
	}
	if lineCount == 0 {
		return syntax.Range{Start: start, End: start}, nil
	}

	end := start
	for _, line := range lines[startLine : startLine+lineCount] {
		end += len(line) + 1
	}

	return syntax.Range{Start: start, End: end - 1}, nil
}

// ByteRangeToLineSpan maps a byte range back to the lines it touches.
//
// Both bounds are compared inclusively against each line's span, the newline
// position counting as part of its line. An End that sits exactly at the
// start of a line is therefore attributed to that later line.
func ByteRangeToLineSpan(r syntax.Range, lines []string) (LineSpan, error) {
	span := LineSpan{Start: -1, End: -1}

	offset := 0
	for i, line := range lines {
		lineEnd := offset + len(line)
		if span.Start < 0 && r.Start >= offset && r.Start <= lineEnd {
			span.Start = i
		}
		if r.End >= offset && r.End <= lineEnd {
			span.End = i
			break
		}
		offset = lineEnd + 1
	}

	if span.Start < 0 || span.End < 0 {
		return LineSpan{}, fmt.Errorf("%w: bytes %v", ErrLineOutOfRange, r)
	}
	return span, nil
}
