package tui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

var dashboardArt = []string{
	"┌─┐┌─┐┌┬┐┌─┐┌┬┐┌─┐┌─┐┬┌─",
	"├─┘│ ││││││ │ │ ├─┤└─┐├┴┐",
	"┴  └─┘┴ ┴└─┘ ┴ ┴ ┴└─┘┴ ┴",
}

// renderDashboard renders the welcome screen shown until the first key.
func renderDashboard(version string, width, height int) string {
	palette := []color.Color{colorCyan, colorMagenta, colorOrange}
	lines := make([]string, 0, len(dashboardArt)+6)
	for i, row := range dashboardArt {
		lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(palette[i%len(palette)]).Render(row))
	}
	lines = append(lines, "")
	if v := strings.TrimSpace(version); v != "" {
		lines = append(lines, mutedStyle.Render("version "+v))
	}
	lines = append(lines,
		"",
		lipgloss.NewStyle().Foreground(colorText).Render("tasks and focus sessions in your terminal"),
		"",
		mutedStyle.Render("a new task • p pomodoro • o settings • j/k navigate • q quit"),
		lipgloss.NewStyle().Foreground(colorRed).Render("press any key to continue"),
	)
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
