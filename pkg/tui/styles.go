package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/simonkoeck/widen/pkg/ui"
)

// Colors not shared with the console palette in pkg/ui.
var (
	BGHighlight = lipgloss.Color("#3D4A5C")
	BrightWhite = lipgloss.Color("#F7FAFC")
	MarkerPink  = lipgloss.Color("#D67AB1")
)

// Base styles
var (
	AppStyle = lipgloss.NewStyle().
			Padding(1, 2)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(BrightWhite).
			Background(ui.InfoBlue).
			Padding(0, 2).
			MarginBottom(1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.BorderGray).
			Padding(0, 1)

	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ui.InfoBlue).
				Padding(0, 1)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(BrightWhite).
			Background(ui.BGAccent).
			Padding(0, 1)

	ItemStyle = lipgloss.NewStyle().
			Foreground(ui.MutedText).
			PaddingLeft(2)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(BrightWhite).
				Background(BGHighlight).
				Bold(true).
				PaddingLeft(1)

	StatusPending = lipgloss.NewStyle().
			Foreground(ui.WarningAmber).
			Bold(true)

	StatusAccepted = lipgloss.NewStyle().
			Foreground(ui.SuccessGreen).
			Bold(true)

	StatusRejected = lipgloss.NewStyle().
			Foreground(ui.ErrorRed)

	CodeStyle = lipgloss.NewStyle().
			Foreground(ui.DimText)

	MarkerLineStyle = lipgloss.NewStyle().
			Foreground(MarkerPink).
			Bold(true)

	LineNumberStyle = lipgloss.NewStyle().
			Foreground(ui.MutedText).
			Align(lipgloss.Right)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ui.MutedText).
			MarginTop(1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ui.InfoBlue).
			Bold(true)

	FilePathStyle = lipgloss.NewStyle().
			Foreground(ui.InfoBlue).
			Bold(true)

	RegionCountStyle = lipgloss.NewStyle().
				Foreground(ui.WarningAmber)

	DimTextStyle = lipgloss.NewStyle().
			Foreground(ui.DimText)
)

// Icons (Nerd Font)
const (
	IconFile       = "󰈙 "
	IconCheck      = "✔ "
	IconCross      = "✘ "
	IconWarning    = "⚠ "
	IconArrowRight = "➜ "
	IconBefore     = "󰕍 "
	IconAfter      = "󰕒 "
	IconDiff       = "󰦓 "
	IconWiden      = "⇕ "
)
