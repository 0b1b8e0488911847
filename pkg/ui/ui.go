package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Color palette - Modern Minimalist
var (
	InfoBlue     = lipgloss.Color("#6C9BCF")
	SuccessGreen = lipgloss.Color("#7CB486")
	ErrorRed     = lipgloss.Color("#E07A7A")
	WarningAmber = lipgloss.Color("#D9A648")
	BorderGray   = lipgloss.Color("#4A5568")
	MutedText    = lipgloss.Color("#718096")
	DimText      = lipgloss.Color("#A0AEC0")
	BGAccent     = lipgloss.Color("#2D3748")
)

// Nerd Font icons
const (
	IconInfo    = ""
	IconSuccess = ""
	IconError   = ""
	IconWarning = ""
	IconWiden   = ""
	IconFile    = ""
	IconStep    = ""
)

// Row is one line of the region table.
type Row struct {
	File    string
	Lines   string // e.g. "12-18"
	Node    string
	Outcome string
}

// Outcome labels that get their own colour in the table.
const (
	OutcomeExpanded = "expanded"
	OutcomeFailed   = "unsafe"
)

// Styles
var (
	infoStyle = lipgloss.NewStyle().
			Foreground(InfoBlue).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(SuccessGreen).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(ErrorRed).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(WarningAmber).
			Bold(true)

	stepStyle = lipgloss.NewStyle().
			Foreground(DimText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(MutedText)

	headerStyle = lipgloss.NewStyle().
			Foreground(InfoBlue).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderGray)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(InfoBlue).
				Bold(true)

	tableCellStyle = lipgloss.NewStyle().
			Foreground(DimText)

	failedCellStyle = lipgloss.NewStyle().
			Foreground(ErrorRed)

	expandedCellStyle = lipgloss.NewStyle().
				Foreground(SuccessGreen)
)

var (
	outMu sync.Mutex
	out   io.Writer = os.Stdout
)

// SetOutput redirects all console output; it returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	outMu.Lock()
	defer outMu.Unlock()
	prev := out
	out = w
	return prev
}

func printf(format string, args ...any) {
	outMu.Lock()
	defer outMu.Unlock()
	fmt.Fprintf(out, format, args...)
}

// Info prints an info message with blue icon
func Info(msg string) {
	printf("%s %s\n", infoStyle.Render(IconInfo), msg)
}

// Success prints a success message with green checkmark
func Success(msg string) {
	printf("%s %s\n", successStyle.Render(IconSuccess), msg)
}

// Error prints an error message with red X
func Error(msg string) {
	printf("%s %s\n", errorStyle.Render(IconError), msg)
}

// Warning prints a warning message with amber triangle
func Warning(msg string) {
	printf("%s %s\n", warningStyle.Render(IconWarning), msg)
}

// Step prints a step indicator with arrow
func Step(msg string) {
	printf("%s %s\n", stepStyle.Render(IconStep), mutedStyle.Render(msg))
}

// Header prints a styled header box
func Header(title string) {
	content := fmt.Sprintf("%s %s", IconWiden, title)
	printf("%s\n\n", headerStyle.Render(content))
}

// Newline prints an empty line.
func Newline() {
	printf("\n")
}

// RegionTable renders a table with one row per conflict region.
func RegionTable(rows []Row) {
	if len(rows) == 0 {
		return
	}

	headers := [4]string{IconFile + " FILE", "LINES", "NODE", "OUTCOME"}
	widths := [4]int{}
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i, cell := range r.cells() {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	for i := range widths {
		widths[i] += 2
	}

	borderStyle := lipgloss.NewStyle().Foreground(BorderGray)
	vertical := borderStyle.Render("│")

	hLine := func(left, mid, right string) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w)
		}
		return borderStyle.Render(left + strings.Join(parts, mid) + right)
	}

	pad := func(s string, width int) string {
		return " " + s + strings.Repeat(" ", max(0, width-lipgloss.Width(s)-1))
	}

	row := func(cells [4]string, styles [4]lipgloss.Style) string {
		var b strings.Builder
		b.WriteString(vertical)
		for i, cell := range cells {
			b.WriteString(styles[i].Render(pad(cell, widths[i])))
			b.WriteString(vertical)
		}
		return b.String()
	}

	var b strings.Builder
	b.WriteString(hLine("╭", "┬", "╮") + "\n")
	h := tableHeaderStyle
	b.WriteString(row(headers, [4]lipgloss.Style{h, h, h, h}) + "\n")
	b.WriteString(hLine("├", "┼", "┤") + "\n")

	for _, r := range rows {
		outcomeStyle := tableCellStyle
		switch r.Outcome {
		case OutcomeExpanded:
			outcomeStyle = expandedCellStyle
		case OutcomeFailed, "out of range":
			outcomeStyle = failedCellStyle
		}
		c := tableCellStyle
		b.WriteString(row(r.cells(), [4]lipgloss.Style{c, c, c, outcomeStyle}) + "\n")
	}

	b.WriteString(hLine("╰", "┴", "╯") + "\n")
	printf("%s", b.String())
}

func (r Row) cells() [4]string {
	return [4]string{r.File, r.Lines, r.Node, r.Outcome}
}

// Summary prints the closing line of a run.
func Summary(expanded, files, failed int, dryRun bool) {
	printf("\n")
	switch {
	case failed > 0:
		Warning(fmt.Sprintf("%d file(s) could not be processed", failed))
	case expanded == 0:
		Info("No conflict regions needed widening")
	case dryRun:
		Info(fmt.Sprintf("Would widen %d region(s) in %d file(s)", expanded, files))
	default:
		Success(fmt.Sprintf("Widened %d region(s) in %d file(s)", expanded, files))
	}
}
