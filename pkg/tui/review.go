// Package tui is the interactive review of proposed widenings.
package tui

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// ReviewResult contains the outcome of a review session.
type ReviewResult struct {
	Items   []ReviewItem
	Aborted bool
}

// Accepted returns the items the reviewer accepted. An aborted session
// accepts nothing.
func (r *ReviewResult) Accepted() []ReviewItem {
	if r.Aborted {
		return nil
	}
	var accepted []ReviewItem
	for _, it := range r.Items {
		if it.Verdict == VerdictAccept {
			accepted = append(accepted, it)
		}
	}
	return accepted
}

// RunReview starts the interactive review TUI.
func RunReview(items []ReviewItem, opts ...tea.ProgramOption) (*ReviewResult, error) {
	if len(items) == 0 {
		return &ReviewResult{Items: items}, nil
	}

	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(NewModel(items), opts...)

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("TUI error: %w", err)
	}

	m := finalModel.(Model)
	return &ReviewResult{
		Items:   m.Items,
		Aborted: m.Aborted,
	}, nil
}

// PrintSummary prints the verdicts of a review session.
func PrintSummary(w io.Writer, result *ReviewResult) {
	if result.Aborted {
		fmt.Fprintln(w, StatusRejected.Render("\n"+IconCross+"Review aborted, no files written"))
		return
	}

	accepted := len(result.Accepted())
	total := len(result.Items)
	fmt.Fprintln(w, StatusAccepted.Render(fmt.Sprintf("\n%s%d of %d file(s) accepted", IconCheck, accepted, total)))

	fmt.Fprintln(w)
	for _, it := range result.Items {
		fmt.Fprintf(w, "  %s %s\n", FilePathStyle.Render(it.File), renderVerdict(it.Verdict))
	}
}

// IsTerminal reports whether stdin and stdout are both attached to a
// terminal, which the review TUI needs.
func IsTerminal() bool {
	return isTTY(os.Stdin.Fd()) && isTTY(os.Stdout.Fd())
}

func isTTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
