package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonkoeck/widen/pkg/ui"
)

// Verdict is the reviewer's decision for one file.
type Verdict int

const (
	VerdictPending Verdict = iota
	VerdictAccept
	VerdictReject
)

func (v Verdict) String() string {
	switch v {
	case VerdictAccept:
		return "Accept"
	case VerdictReject:
		return "Keep Original"
	default:
		return "Pending"
	}
}

// ReviewItem is one file with a proposed widening.
type ReviewItem struct {
	File     string
	Language string
	Regions  int // conflict regions in the file
	Expanded int // regions the proposal widens
	Original string
	Proposed string
	Verdict  Verdict
}

// ViewMode selects the screen.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
)

// Panel focus in detail view
type Panel int

const (
	PanelBefore Panel = iota
	PanelAfter
	PanelDiff
	panelCount
)

// Model is the main TUI model
type Model struct {
	// Data
	Items        []ReviewItem
	CurrentIndex int

	// View state
	Mode         ViewMode
	FocusedPanel Panel
	Width        int
	Height       int

	// Viewports for scrolling
	BeforeViewport viewport.Model
	AfterViewport  viewport.Model
	DiffViewport   viewport.Model

	// Result
	Quit    bool
	Aborted bool
}

// KeyMap defines keyboard shortcuts
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Enter     key.Binding
	Tab       key.Binding
	Escape    key.Binding
	Quit      key.Binding
	Accept    key.Binding
	Reject    key.Binding
	AcceptAll key.Binding
	Apply     key.Binding
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "right"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next panel"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Accept: key.NewBinding(
		key.WithKeys("y", "1"),
		key.WithHelp("y/1", "accept"),
	),
	Reject: key.NewBinding(
		key.WithKeys("n", "2"),
		key.WithHelp("n/2", "keep original"),
	),
	AcceptAll: key.NewBinding(
		key.WithKeys("Y"),
		key.WithHelp("Y", "accept all pending"),
	),
	Apply: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "apply"),
	),
}

// NewModel creates a new TUI model
func NewModel(items []ReviewItem) Model {
	m := Model{
		Items:        items,
		CurrentIndex: 0,
		Mode:         ViewList,
		FocusedPanel: PanelAfter,
		Width:        80,
		Height:       24,
	}

	m.BeforeViewport = viewport.New(36, 15)
	m.AfterViewport = viewport.New(36, 15)
	m.DiffViewport = viewport.New(36, 15)

	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.updateViewportSizes()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	var cmd tea.Cmd
	if m.Mode == ViewDetail {
		vp := m.focusedViewport()
		*vp, cmd = vp.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateViewportSizes() {
	panelWidth := max((m.Width-12)/int(panelCount), 10)
	panelHeight := max(m.Height-16, 5)

	for _, vp := range []*viewport.Model{&m.BeforeViewport, &m.AfterViewport, &m.DiffViewport} {
		vp.Width = panelWidth - 2
		vp.Height = panelHeight
	}
}

func (m *Model) focusedViewport() *viewport.Model {
	switch m.FocusedPanel {
	case PanelBefore:
		return &m.BeforeViewport
	case PanelDiff:
		return &m.DiffViewport
	default:
		return &m.AfterViewport
	}
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		m.Quit = true
		m.Aborted = true
		return m, tea.Quit
	}

	switch m.Mode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	}
	return m, nil
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.Items) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.CurrentIndex > 0 {
			m.CurrentIndex--
		}

	case key.Matches(msg, keys.Down):
		if m.CurrentIndex < len(m.Items)-1 {
			m.CurrentIndex++
		}

	case key.Matches(msg, keys.Enter):
		m.Mode = ViewDetail
		m.updateDetailViewports()

	case key.Matches(msg, keys.Accept):
		m.decide(VerdictAccept)

	case key.Matches(msg, keys.Reject):
		m.decide(VerdictReject)

	case key.Matches(msg, keys.AcceptAll):
		for i := range m.Items {
			if m.Items[i].Verdict == VerdictPending {
				m.Items[i].Verdict = VerdictAccept
			}
		}

	case key.Matches(msg, keys.Apply):
		if m.allDecided() {
			m.Quit = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.Mode = ViewList

	case key.Matches(msg, keys.Tab), key.Matches(msg, keys.Right):
		m.FocusedPanel = (m.FocusedPanel + 1) % panelCount

	case key.Matches(msg, keys.Left):
		m.FocusedPanel = (m.FocusedPanel + panelCount - 1) % panelCount

	case key.Matches(msg, keys.Up):
		m.focusedViewport().LineUp(1)

	case key.Matches(msg, keys.Down):
		m.focusedViewport().LineDown(1)

	case key.Matches(msg, keys.Accept):
		m.decide(VerdictAccept)
		m.Mode = ViewList

	case key.Matches(msg, keys.Reject):
		m.decide(VerdictReject)
		m.Mode = ViewList
	}

	return m, nil
}

func (m *Model) decide(v Verdict) {
	m.Items[m.CurrentIndex].Verdict = v
	m.moveToNextPending()
}

func (m *Model) updateDetailViewports() {
	if m.CurrentIndex >= len(m.Items) {
		return
	}
	it := m.Items[m.CurrentIndex]

	m.BeforeViewport.SetContent(formatCode(it.Original))
	m.AfterViewport.SetContent(formatCode(it.Proposed))
	m.DiffViewport.SetContent(strings.TrimSuffix(ui.RenderDiff(ui.LineDiff(it.Original, it.Proposed), 3), "\n"))

	m.BeforeViewport.GotoTop()
	m.AfterViewport.GotoTop()
	m.DiffViewport.GotoTop()
}

func (m *Model) moveToNextPending() {
	for i := m.CurrentIndex + 1; i < len(m.Items); i++ {
		if m.Items[i].Verdict == VerdictPending {
			m.CurrentIndex = i
			return
		}
	}
	// Wrap around
	for i := 0; i < m.CurrentIndex; i++ {
		if m.Items[i].Verdict == VerdictPending {
			m.CurrentIndex = i
			return
		}
	}
}

func (m Model) allDecided() bool {
	for _, it := range m.Items {
		if it.Verdict == VerdictPending {
			return false
		}
	}
	return true
}

func (m Model) decidedCount() int {
	count := 0
	for _, it := range m.Items {
		if it.Verdict != VerdictPending {
			count++
		}
	}
	return count
}

// formatCode adds line numbers to code content
func formatCode(content string) string {
	if content == "" {
		return DimTextStyle.Render("(empty)")
	}

	lines := strings.Split(content, "\n")
	width := len(fmt.Sprint(len(lines)))

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(LineNumberStyle.Render(fmt.Sprintf("%*d", width, i+1)))
		result.WriteString(" ")
		result.WriteString(styleCodeLine(line))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
