package tui

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/evanschultz/pomotask/internal/domain"
)

// Tokyo Night palette.
var (
	colorCyan    = lipgloss.Color("#7dcfff")
	colorMagenta = lipgloss.Color("#bb9af7")
	colorOrange  = lipgloss.Color("#ff9e64")
	colorRed     = lipgloss.Color("#f7768e")
	colorGreen   = lipgloss.Color("#9ece6a")
	colorYellow  = lipgloss.Color("#e0af68")
	colorGray    = lipgloss.Color("#565f89")
	colorText    = lipgloss.Color("#c0caf5")
	colorDim     = lipgloss.Color("239")
)

// statusColor returns the list color for a task status.
func statusColor(status domain.TaskStatus) color.Color {
	switch status {
	case domain.StatusCompleted:
		return colorGreen
	case domain.StatusOverdue:
		return colorRed
	case domain.StatusDueToday:
		return colorYellow
	default:
		return colorText
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorGray)
	statusStyle   = lipgloss.NewStyle().Foreground(colorDim)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorMagenta)
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorOrange)
)

// panelStyle returns a rounded panel whose border marks focus.
func panelStyle(focused bool) lipgloss.Style {
	border := colorDim
	if focused {
		border = colorCyan
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}
