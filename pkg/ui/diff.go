package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffOp is the kind of a diff line.
type DiffOp int

const (
	DiffEqual DiffOp = iota
	DiffInsert
	DiffDelete
)

// DiffLine is a single line of a line-level diff.
type DiffLine struct {
	Op   DiffOp
	Text string
}

var (
	diffAddStyle    = lipgloss.NewStyle().Foreground(SuccessGreen)
	diffDelStyle    = lipgloss.NewStyle().Foreground(ErrorRed)
	diffHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7")).Bold(true)
	diffHunkStyle   = lipgloss.NewStyle().Foreground(MutedText)
)

// LineDiff computes a line-level diff between original and proposed.
func LineDiff(original, proposed string) []DiffLine {
	var enc lineEncoder
	a, b := enc.encode(original), enc.encode(proposed)

	dmp := diffmatchpatch.New()
	var result []DiffLine
	for _, d := range dmp.DiffMainRunes(a, b, false) {
		op := DiffEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = DiffInsert
		case diffmatchpatch.DiffDelete:
			op = DiffDelete
		}
		for _, r := range d.Text {
			result = append(result, DiffLine{Op: op, Text: enc.lines[lineIndex(r)]})
		}
	}
	return result
}

// lineEncoder maps every distinct line to one rune, so that a rune diff is
// a line diff. diffmatchpatch's own line helpers join indices with commas
// and would be diffed digit by digit.
type lineEncoder struct {
	lines []string
	index map[string]rune
}

func (e *lineEncoder) encode(text string) []rune {
	if text == "" {
		return nil
	}
	if e.index == nil {
		e.index = make(map[string]rune)
	}

	split := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	runes := make([]rune, len(split))
	for i, line := range split {
		r, ok := e.index[line]
		if !ok {
			r = lineRune(len(e.lines))
			e.index[line] = r
			e.lines = append(e.lines, line)
		}
		runes[i] = r
	}
	return runes
}

// lineRune turns a line index into a rune that survives a round trip
// through a Go string: it starts at 1 and skips the surrogate block.
func lineRune(i int) rune {
	r := rune(i + 1)
	if r >= 0xD800 {
		r += 0x800
	}
	return r
}

// lineIndex inverts lineRune.
func lineIndex(r rune) int {
	if r >= 0xE000 {
		r -= 0x800
	}
	return int(r) - 1
}

// RenderDiff renders the changed lines of a diff with context lines of
// unchanged text around each change. Runs of unchanged lines further away
// are collapsed into a hunk marker.
func RenderDiff(diff []DiffLine, context int) string {
	keep := make([]bool, len(diff))
	for i, l := range diff {
		if l.Op == DiffEqual {
			continue
		}
		for j := max(0, i-context); j <= min(len(diff)-1, i+context); j++ {
			keep[j] = true
		}
	}

	var b strings.Builder
	skipped := false
	for i, l := range diff {
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped {
			b.WriteString(diffHunkStyle.Render("  ...") + "\n")
			skipped = false
		}
		switch l.Op {
		case DiffInsert:
			b.WriteString(diffAddStyle.Render("+ "+l.Text) + "\n")
		case DiffDelete:
			b.WriteString(diffDelStyle.Render("- "+l.Text) + "\n")
		default:
			b.WriteString("  " + l.Text + "\n")
		}
	}
	return b.String()
}

// HasChanges reports whether diff contains any inserted or deleted line.
func HasChanges(diff []DiffLine) bool {
	for _, l := range diff {
		if l.Op != DiffEqual {
			return true
		}
	}
	return false
}

// PrintDryRunDiff prints the colored diff of a file for dry-run mode.
func PrintDryRunDiff(filename, original, proposed string) {
	printf("\n%s\n", diffHeaderStyle.Render(fmt.Sprintf("=== Dry Run: %s ===", filename)))

	diff := LineDiff(original, proposed)
	if !HasChanges(diff) {
		printf("  (no changes)\n\n")
		return
	}
	printf("%s\n", RenderDiff(diff, 2))
}
