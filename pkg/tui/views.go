package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/simonkoeck/widen/pkg/conflict"
)

// View implements tea.Model
func (m Model) View() string {
	if m.Width == 0 {
		return "Loading..."
	}

	var content string
	switch m.Mode {
	case ViewList:
		content = m.renderListView()
	case ViewDetail:
		content = m.renderDetailView()
	}

	return AppStyle.Render(content)
}

func (m Model) renderListView() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(IconWiden + "Review Widened Conflicts"))
	b.WriteString("\n\n")

	decided := m.decidedCount()
	total := len(m.Items)
	progressText := fmt.Sprintf("Progress: %d/%d reviewed", decided, total)
	if decided == total {
		progressText = StatusAccepted.Render(IconCheck + "All files reviewed")
	}
	b.WriteString(progressText)
	b.WriteString("\n\n")

	b.WriteString(PanelStyle.Width(m.Width - 6).Render(m.renderItemList()))
	b.WriteString("\n")

	b.WriteString(m.renderListHelp())
	return b.String()
}

func (m Model) renderItemList() string {
	var b strings.Builder

	visibleHeight := max(m.Height-16, 5)

	start := 0
	if m.CurrentIndex >= visibleHeight {
		start = m.CurrentIndex - visibleHeight + 1
	}
	end := min(start+visibleHeight, len(m.Items))

	for i := start; i < end; i++ {
		it := m.Items[i]
		isSelected := i == m.CurrentIndex

		var line strings.Builder
		if isSelected {
			line.WriteString(IconArrowRight)
		} else {
			line.WriteString("  ")
		}
		line.WriteString(IconFile)

		line.WriteString(FilePathStyle.Render(fmt.Sprintf("%-32s", truncate(it.File, 32))))
		line.WriteString(" ")
		line.WriteString(DimTextStyle.Render(fmt.Sprintf("%-10s", it.Language)))
		line.WriteString(" ")
		line.WriteString(fmt.Sprintf("%d/%d widened", it.Expanded, it.Regions))
		line.WriteString("  ")
		line.WriteString(renderVerdict(it.Verdict))

		lineStr := line.String()
		if isSelected {
			lineStr = SelectedItemStyle.Width(m.Width - 10).Render(lineStr)
		} else {
			lineStr = ItemStyle.Render(lineStr)
		}

		b.WriteString(lineStr)
		b.WriteString("\n")
	}

	if len(m.Items) > visibleHeight {
		b.WriteString(DimTextStyle.Render(fmt.Sprintf("\n  %d-%d of %d", start+1, end, len(m.Items))))
	}

	return b.String()
}

func renderVerdict(v Verdict) string {
	switch v {
	case VerdictAccept:
		return StatusAccepted.Render(IconCheck + v.String())
	case VerdictReject:
		return StatusRejected.Render(IconCross + v.String())
	default:
		return StatusPending.Render(IconWarning + v.String())
	}
}

func (m Model) renderListHelp() string {
	parts := []string{
		fmt.Sprintf("%s navigate", HelpKeyStyle.Render("↑↓/jk")),
		fmt.Sprintf("%s view changes", HelpKeyStyle.Render("enter")),
		fmt.Sprintf("%s accept", HelpKeyStyle.Render("y")),
		fmt.Sprintf("%s keep original", HelpKeyStyle.Render("n")),
		fmt.Sprintf("%s accept all", HelpKeyStyle.Render("Y")),
	}
	if m.allDecided() {
		parts = append(parts, fmt.Sprintf("%s apply", HelpKeyStyle.Render("a")))
	}
	parts = append(parts, fmt.Sprintf("%s quit", HelpKeyStyle.Render("q")))

	return HelpStyle.Render(strings.Join(parts, "  "))
}

func (m Model) renderDetailView() string {
	var b strings.Builder

	it := m.Items[m.CurrentIndex]

	b.WriteString(HeaderStyle.Render(IconWiden + it.File))
	b.WriteString("\n")
	b.WriteString(FilePathStyle.Render(it.Language))
	b.WriteString("  ")
	b.WriteString(RegionCountStyle.Render(fmt.Sprintf("%d of %d region(s) widened", it.Expanded, it.Regions)))
	b.WriteString("\n\n")

	panelWidth := (m.Width - 12) / int(panelCount)
	panelHeight := max(m.Height-16, 5)

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderPanel("BEFORE", m.BeforeViewport.View(), PanelBefore, panelWidth, panelHeight),
		"  ",
		m.renderPanel("AFTER", m.AfterViewport.View(), PanelAfter, panelWidth, panelHeight),
		"  ",
		m.renderPanel("DIFF", m.DiffViewport.View(), PanelDiff, panelWidth, panelHeight),
	)
	b.WriteString(panels)
	b.WriteString("\n")

	if it.Verdict != VerdictPending {
		b.WriteString("\n")
		b.WriteString(renderVerdict(it.Verdict))
	}

	b.WriteString("\n")
	b.WriteString(m.renderDetailHelp())
	return b.String()
}

func (m Model) renderPanel(title, content string, panel Panel, width, height int) string {
	var icon string
	switch panel {
	case PanelBefore:
		icon = IconBefore
	case PanelAfter:
		icon = IconAfter
	case PanelDiff:
		icon = IconDiff
	}
	titleText := PanelTitleStyle.Width(width - 2).Render(icon + title)

	style := PanelStyle
	if panel == m.FocusedPanel {
		style = FocusedPanelStyle
	}
	return style.Width(width).Height(height + 2).Render(titleText + "\n" + content)
}

func (m Model) renderDetailHelp() string {
	parts := []string{
		fmt.Sprintf("%s switch panel", HelpKeyStyle.Render("tab/←→")),
		fmt.Sprintf("%s scroll", HelpKeyStyle.Render("↑↓/jk")),
		fmt.Sprintf("%s accept", HelpKeyStyle.Render("y")),
		fmt.Sprintf("%s keep original", HelpKeyStyle.Render("n")),
		fmt.Sprintf("%s back", HelpKeyStyle.Render("esc")),
	}
	return HelpStyle.Render(strings.Join(parts, "  "))
}

func styleCodeLine(line string) string {
	if conflict.IsMarker(line) {
		return MarkerLineStyle.Render(line)
	}
	return CodeStyle.Render(line)
}

// truncate shortens s to maxLen, keeping the tail, which for paths holds
// the file name.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return "..." + s[len(s)-maxLen+3:]
}
