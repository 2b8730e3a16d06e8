package tui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/evanschultz/pomotask/internal/domain"
	"github.com/evanschultz/pomotask/internal/playback"
)

// View renders the main screen with the open window composed on top.
func (m Model) View() tea.View {
	if m.err != nil {
		return newAltView("error: " + m.err.Error() + "\n\nq quit\n")
	}
	if !m.ready {
		return newAltView("loading...")
	}
	if m.showDashboard {
		return newAltView(renderDashboard(m.version, m.state.width, m.state.height))
	}

	content := m.renderMain()
	if w := m.state.window; w != nil && w.Visible {
		content = overlayAt(content, m.renderWindow(*w), w.Rect, m.state.width, max(m.state.height, lipgloss.Height(content)))
	}
	return newAltView(content)
}

func newAltView(content string) tea.View {
	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

// renderMain renders the header, task list, status and help lines.
func (m Model) renderMain() string {
	width := max(20, m.state.width)
	header := titleStyle.Render("pomotask") + "  " + m.summaryLine()
	if playing := m.nowPlayingLine(); playing != "" {
		header += statusStyle.Render("  " + playing)
	}

	helpBubble := m.help
	helpBubble.SetWidth(max(0, width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(colorGray).
		BorderTop(true).
		BorderForeground(colorDim).
		Padding(0, 1).
		Width(width).
		Render(helpBubble.View(m.keys))
	statusLine := statusStyle.Render(m.status)

	listRows := max(3, m.state.height-lipgloss.Height(header)-lipgloss.Height(helpLine)-4)
	list := m.renderTaskList(width-4, listRows)
	panel := panelStyle(m.state.window == nil).Width(width).Render(list)

	return strings.Join([]string{header, panel, statusLine, helpLine}, "\n")
}

// summaryLine counts open, due-today and overdue tasks.
func (m Model) summaryLine() string {
	open, today, overdue := 0, 0, 0
	for _, task := range m.state.tasks {
		switch task.Status {
		case domain.StatusCompleted:
			continue
		case domain.StatusDueToday:
			today++
		case domain.StatusOverdue:
			overdue++
		}
		open++
	}
	return mutedStyle.Render(fmt.Sprintf("%d open • %d due today • %d overdue", open, today, overdue))
}

// nowPlayingLine describes the current track when one is loaded.
func (m Model) nowPlayingLine() string {
	st := m.player.State()
	idx, ok := st.CurrentIndex()
	files := m.player.Files()
	if !ok || idx >= len(files) || st.Status == playback.StatusStopped {
		return ""
	}
	return fmt.Sprintf("♪ %s (%s)", files[idx].Name, st.Status)
}

// renderTaskList renders the visible slice of tasks with a scrollbar.
func (m Model) renderTaskList(width, rows int) string {
	if len(m.state.tasks) == 0 {
		return mutedStyle.Render("No tasks yet. Press a to add one.")
	}
	sel, _ := m.state.taskNav.Selected()
	start, end := windowBounds(len(m.state.tasks), sel, rows)
	now := m.now()
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, m.taskRow(m.state.tasks[i], i == sel, max(1, width-2), now))
	}
	body := strings.Join(lines, "\n")
	bar := renderScrollbar(len(m.state.tasks), m.state.taskNav.Scroll(), len(lines))
	return lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(max(1, width-2)).Render(body), " ", bar)
}

// taskRow renders one list entry.
func (m Model) taskRow(task domain.Task, selected bool, width int, now time.Time) string {
	prefix := "  "
	if selected {
		prefix = "> "
	}
	line := prefix + task.Status.Icon() + " " + task.Title
	if due := dueLabel(task, now); due != "" {
		line += " " + due
	}
	style := lipgloss.NewStyle().Foreground(statusColor(task.Status))
	if selected {
		style = style.Bold(true)
	}
	return style.Render(truncate(line, width))
}

// dueLabel returns a compact due marker for open tasks.
func dueLabel(task domain.Task, now time.Time) string {
	if task.DueAt == nil || task.Status == domain.StatusCompleted {
		return ""
	}
	switch task.Status {
	case domain.StatusOverdue:
		return "(overdue)"
	case domain.StatusDueToday:
		return "(today)"
	}
	return fmt.Sprintf("(%dd)", daysUntil(*task.DueAt, now))
}

// daysUntil counts calendar days between now and due in local time.
func daysUntil(due, now time.Time) int {
	ny, nm, nd := now.Local().Date()
	dy, dm, dd := due.Local().Date()
	from := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	to := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// renderScrollbar draws a one-column track with the thumb at pos.
func renderScrollbar(total, pos, height int) string {
	if height <= 0 {
		return ""
	}
	thumb := 0
	if total > 1 && height > 1 {
		thumb = clamp(pos, 0, total-1) * (height - 1) / (total - 1)
	}
	cells := make([]string, height)
	for i := range cells {
		if i == thumb {
			cells[i] = lipgloss.NewStyle().Foreground(colorCyan).Render("┃")
		} else {
			cells[i] = mutedStyle.Render("│")
		}
	}
	return strings.Join(cells, "\n")
}

// renderWindow renders the open window at its computed size.
func (m Model) renderWindow(w ActiveWindow) string {
	inner := max(10, w.Rect.Width-6)
	rows := max(3, w.Rect.Height-2)
	var body string
	switch p := w.Payload.(type) {
	case createTaskPayload:
		body = m.renderCreateTask(p, inner)
	case pomodoroPayload:
		body = m.renderPomodoro(p, inner, rows)
	case settingsPayload:
		body = m.renderSettings(p, inner, rows)
	case searchPayload:
		body = m.renderSearch(p, inner)
	case taskDetailPayload:
		body = m.renderTaskDetail(p, inner)
	}
	content := titleStyle.Render(w.Kind.String()) + "\n\n" + body
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMagenta).
		Padding(0, 1).
		Width(w.Rect.Width).
		Render(fitLines(content, rows))
}

// renderField renders a labeled text field panel.
func renderField(label string, f textField, focused bool, width int) string {
	return labelStyle.Render(label) + "\n" + panelStyle(focused).Width(width).Render(f.renderWithCursor(focused))
}

func (m Model) renderCreateTask(p createTaskPayload, width int) string {
	return strings.Join([]string{
		renderField("Title", p.fields[0], p.active == 0, width),
		renderField("Description", p.fields[1], p.active == 1, width),
		"",
		mutedStyle.Render("tab next field • enter create • esc cancel"),
	}, "\n")
}

func (m Model) renderPomodoro(p pomodoroPayload, width, rows int) string {
	options := make([]string, 0, len(pomodoroDurations))
	for i, minutes := range pomodoroDurations {
		line := fmt.Sprintf("  %d min", minutes)
		if i == p.durationIndex {
			line = selectedStyle.Render(fmt.Sprintf("> %d min", minutes))
		}
		options = append(options, line)
	}
	duration := labelStyle.Render("Duration") + "\n" +
		panelStyle(p.focus == pomodoroFocusDuration).Width(width).Render(strings.Join(options, "\n"))
	custom := renderField("Custom minutes", p.custom, p.focus == pomodoroFocusCustom, width)

	musicRows := max(1, rows-len(options)-12)
	music := labelStyle.Render("Music") + "\n" +
		panelStyle(p.focus == pomodoroFocusMusic).Width(width).Render(m.renderMusicList(p.focus == pomodoroFocusMusic, width-4, musicRows))

	hint := "tab focus • ↑/↓ choose • enter save • esc close"
	if p.focus == pomodoroFocusMusic {
		hint = "↑/↓ choose • enter play • space pause • s stop • esc close"
	}
	current := mutedStyle.Render(fmt.Sprintf("session: %d min", m.state.settings.Minutes()))
	return strings.Join([]string{duration, custom, music, current, mutedStyle.Render(hint)}, "\n")
}

func (m Model) renderSettings(p settingsPayload, width, rows int) string {
	check := func(on bool) string {
		if on {
			return "[x]"
		}
		return "[ ]"
	}
	line := func(focus int, text string) string {
		if p.focus == focus {
			return selectedStyle.Render("> " + text)
		}
		return "  " + text
	}
	bar := strings.Repeat("■", p.volume) + strings.Repeat("□", 10-p.volume)
	options := []string{
		line(settingsFocusPlayDuring, check(p.playDuring)+" Play music during pomodoro"),
		line(settingsFocusPlayOnFinish, check(p.playOnFinish)+" Play music when finished"),
		line(settingsFocusVolume, fmt.Sprintf("Volume %s %d%%", bar, p.volume*10)),
	}
	prefs := panelStyle(p.focus < settingsFocusMusic).Width(width).Render(strings.Join(options, "\n"))

	musicRows := max(1, rows-len(options)-8)
	music := labelStyle.Render("Music") + "\n" +
		panelStyle(p.focus == settingsFocusMusic).Width(width).Render(m.renderMusicList(p.focus == settingsFocusMusic, width-4, musicRows))

	hint := "tab focus • space toggle • ←/→ volume • enter save • esc close"
	if p.focus == settingsFocusMusic {
		hint = "↑/↓ choose • enter play • space pause • s stop • esc close"
	}
	return strings.Join([]string{prefs, music, mutedStyle.Render(hint)}, "\n")
}

func (m Model) renderSearch(p searchPayload, width int) string {
	matches := 0
	for _, task := range m.state.tasks {
		if task.Matches(p.query.Value()) {
			matches++
		}
	}
	return strings.Join([]string{
		renderField("Query", p.query, true, width),
		mutedStyle.Render(fmt.Sprintf("%d matching tasks", matches)),
		"",
		mutedStyle.Render("enter next match • esc cancel"),
	}, "\n")
}

func (m Model) renderTaskDetail(p taskDetailPayload, width int) string {
	task, ok := m.state.taskByID(p.taskID)
	if !ok {
		return mutedStyle.Render("task no longer exists")
	}
	field := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-9s", label)) + " " + value
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(task.Title),
		"",
		field("Status", lipgloss.NewStyle().Foreground(statusColor(task.Status)).Render(task.Status.Icon()+" "+task.Status.Label())),
		field("Created", task.CreatedAt.Local().Format("2006-01-02 15:04")),
	}
	if task.DueAt != nil {
		lines = append(lines, field("Due", task.DueAt.Local().Format("2006-01-02 15:04")))
	}
	if task.FinishedAt != nil {
		lines = append(lines, field("Finished", task.FinishedAt.Local().Format("2006-01-02 15:04")))
	}
	if tags := task.TagNames(); len(tags) > 0 {
		lines = append(lines, field("Tags", "#"+strings.Join(tags, " #")))
	}
	if desc := m.md.render(task.Description, width); desc != "" {
		lines = append(lines, "", desc)
	}
	if p.tagging {
		lines = append(lines, "", renderField("New tag", p.tag, true, width))
	} else {
		lines = append(lines, "", mutedStyle.Render("t add tag • enter/esc close"))
	}
	return strings.Join(lines, "\n")
}

// renderMusicList renders the scanned files with the playing marker and a scrollbar.
func (m Model) renderMusicList(focused bool, width, rows int) string {
	files := m.player.Files()
	if len(files) == 0 {
		return mutedStyle.Render("no music files found")
	}
	st := m.player.State()
	current, hasCurrent := st.CurrentIndex()
	sel, _ := m.state.musicNav.Selected()
	start, end := windowBounds(len(files), sel, rows)
	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		marker := "♪"
		if hasCurrent && current == i {
			switch st.Status {
			case playback.StatusPlaying:
				marker = "▶"
			case playback.StatusPaused:
				marker = "⏸"
			}
		}
		text := truncate(marker+" "+files[i].Name, max(1, width-2))
		if focused && i == sel {
			lines = append(lines, selectedStyle.Render("> "+text))
			continue
		}
		lines = append(lines, "  "+text)
	}
	bar := renderScrollbar(len(files), m.state.musicNav.Scroll(), len(lines))
	out := lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(max(1, width-2)).Render(strings.Join(lines, "\n")), " ", bar)
	if hasCurrent && st.Status != playback.StatusStopped {
		out += "\n" + mutedStyle.Render(fmt.Sprintf("%s %s", st.Status, formatPosition(st.Position)))
	}
	return out
}

// formatPosition renders a playback offset as m:ss.
func formatPosition(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// fitLines pads or truncates content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayAt composes overlay on base at the window rectangle.
func overlayAt(base, overlay string, rect Rect, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	canvas.Compose(lipgloss.NewLayer(base).X(0).Y(0).Z(0))
	canvas.Compose(lipgloss.NewLayer(overlay).X(max(0, rect.X)).Y(max(0, rect.Y)).Z(10))
	return canvas.Render()
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
