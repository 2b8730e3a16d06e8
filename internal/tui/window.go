package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/pomotask/internal/app"
	"github.com/evanschultz/pomotask/internal/domain"
)

// ErrWindowOpen reports an open request while another window is active.
var ErrWindowOpen = errors.New("a window is already open")

// WindowKind identifies one modal window.
type WindowKind int

const (
	WindowEmpty WindowKind = iota
	WindowCreateTask
	WindowPomodoro
	WindowSettings
	WindowSearch
	WindowTaskDetail
)

// String returns the window title.
func (k WindowKind) String() string {
	switch k {
	case WindowCreateTask:
		return "New Task"
	case WindowPomodoro:
		return "Pomodoro"
	case WindowSettings:
		return "Settings"
	case WindowSearch:
		return "Search"
	case WindowTaskDetail:
		return "Task Details"
	default:
		return "Window"
	}
}

// pomodoro focus regions.
const (
	pomodoroFocusDuration = iota
	pomodoroFocusCustom
	pomodoroFocusMusic
)

// settings focus regions.
const (
	settingsFocusPlayDuring = iota
	settingsFocusPlayOnFinish
	settingsFocusVolume
	settingsFocusMusic
)

// customMinutesLimit caps the custom pomodoro field length.
const customMinutesLimit = 3

// FocusRegionCount returns how many focus regions a window kind has.
// Tab advances focus modulo this count.
func FocusRegionCount(kind WindowKind) int {
	switch kind {
	case WindowCreateTask:
		return 2
	case WindowPomodoro:
		return 3
	case WindowSettings:
		return 4
	default:
		return 1
	}
}

// closesOnEnter reports whether Enter commits and closes a window kind.
func closesOnEnter(kind WindowKind) bool {
	switch kind {
	case WindowPomodoro, WindowSettings:
		return false
	default:
		return true
	}
}

// shouldClose applies the closing policy to the raw key.
func shouldClose(kind WindowKind, msg tea.KeyPressMsg) bool {
	switch msg.String() {
	case "esc":
		return true
	case "enter":
		return closesOnEnter(kind)
	default:
		return false
	}
}

// Rect is a window rectangle in terminal cells.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// fallback terminal size used before the first resize event.
const (
	fallbackTermWidth  = 120
	fallbackTermHeight = 30
)

// windowLayout sizes a window kind against the terminal.
func windowLayout(kind WindowKind, termWidth, termHeight int) Rect {
	if termWidth <= 0 || termHeight <= 0 {
		termWidth, termHeight = fallbackTermWidth, fallbackTermHeight
	}
	widthPct, heightPct := 0.7, 0.7
	switch kind {
	case WindowCreateTask:
		widthPct, heightPct = 0.7, 0.8
	case WindowPomodoro:
		widthPct, heightPct = 0.8, 0.85
	case WindowSettings:
		widthPct, heightPct = 0.75, 0.9
	}
	width := int(float64(termWidth) * widthPct)
	height := int(float64(termHeight) * heightPct)
	y := (termHeight - height) / 2
	if kind == WindowCreateTask {
		y = (termHeight - height) / 3
	}
	return Rect{
		X:      (termWidth - width) / 2,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

// ActiveWindow is the single open modal window.
type ActiveWindow struct {
	Kind    WindowKind
	Rect    Rect
	Visible bool
	Payload windowPayload
}

// Focus returns the focused region index.
func (w ActiveWindow) Focus() int {
	switch p := w.Payload.(type) {
	case createTaskPayload:
		return p.active
	case pomodoroPayload:
		return p.focus
	case settingsPayload:
		return p.focus
	default:
		return 0
	}
}

// windowPayload is the per-kind window state.
type windowPayload interface {
	windowKind() WindowKind
}

type createTaskPayload struct {
	fields [2]textField
	active int
}

type pomodoroPayload struct {
	durationIndex int
	custom        textField
	focus         int
}

type settingsPayload struct {
	playDuring   bool
	playOnFinish bool
	volume       int // tenths
	focus        int
}

type searchPayload struct {
	query textField
}

type taskDetailPayload struct {
	taskID  string
	tag     textField
	tagging bool
}

type emptyPayload struct{}

func (createTaskPayload) windowKind() WindowKind { return WindowCreateTask }
func (pomodoroPayload) windowKind() WindowKind   { return WindowPomodoro }
func (settingsPayload) windowKind() WindowKind   { return WindowSettings }
func (searchPayload) windowKind() WindowKind     { return WindowSearch }
func (taskDetailPayload) windowKind() WindowKind { return WindowTaskDetail }
func (emptyPayload) windowKind() WindowKind      { return WindowEmpty }

// newPayload seeds a window payload from the committed settings and selection.
func (s *appState) newPayload(kind WindowKind) windowPayload {
	switch kind {
	case WindowCreateTask:
		return createTaskPayload{fields: [2]textField{newTextField(""), newTextField("")}}
	case WindowPomodoro:
		custom := newDigitField(customMinutesLimit)
		if s.settings.CustomMinutes > 0 {
			custom.SetValue(strconv.Itoa(s.settings.CustomMinutes))
		}
		return pomodoroPayload{durationIndex: s.settings.DurationIndex, custom: custom}
	case WindowSettings:
		return settingsPayload{
			playDuring:   s.settings.PlayDuring,
			playOnFinish: s.settings.PlayOnFinish,
			volume:       int(s.settings.Volume*10 + 0.5),
		}
	case WindowSearch:
		return searchPayload{query: newTextField("")}
	case WindowTaskDetail:
		task, _ := s.selectedTask()
		return taskDetailPayload{taskID: task.ID, tag: newTextField("")}
	default:
		return emptyPayload{}
	}
}

// openWindow opens kind when no window is active.
func (s *appState) openWindow(kind WindowKind) error {
	if s.window != nil {
		return fmt.Errorf("open %s: %w", strings.ToLower(kind.String()), ErrWindowOpen)
	}
	s.window = &ActiveWindow{
		Kind:    kind,
		Rect:    windowLayout(kind, s.width, s.height),
		Visible: true,
		Payload: s.newPayload(kind),
	}
	return nil
}

// dispatchWindow routes one key to the window and applies the closing policy.
// A nil result means the window closed and its payload is discarded.
func (m *Model) dispatchWindow(w ActiveWindow, msg tea.KeyPressMsg) (*ActiveWindow, bool) {
	handled := false
	switch p := w.Payload.(type) {
	case createTaskPayload:
		handled = m.handleCreateTaskKey(&p, msg)
		w.Payload = p
	case pomodoroPayload:
		handled = m.handlePomodoroKey(&p, msg)
		w.Payload = p
	case settingsPayload:
		handled = m.handleSettingsKey(&p, msg)
		w.Payload = p
	case searchPayload:
		handled = m.handleSearchKey(&p, msg)
		w.Payload = p
	case taskDetailPayload:
		handled = m.handleTaskDetailKey(&p, msg)
		w.Payload = p
	default:
		switch msg.String() {
		case "enter", "esc":
			handled = true
		}
	}
	if shouldClose(w.Kind, msg) {
		return nil, handled
	}
	return &w, handled
}

// handleCreateTaskKey edits the title/description form.
func (m *Model) handleCreateTaskKey(p *createTaskPayload, msg tea.KeyPressMsg) bool {
	switch msg.String() {
	case "tab":
		p.active = (p.active + 1) % FocusRegionCount(WindowCreateTask)
		p.fields[p.active].CursorEnd()
		return true
	case "enter":
		m.commitCreateTask(p.fields[0].Value(), p.fields[1].Value())
		return true
	case "esc":
		return true
	}
	return p.fields[p.active].HandleKey(msg)
}

// handlePomodoroKey drives the duration selector, custom field and music list.
func (m *Model) handlePomodoroKey(p *pomodoroPayload, msg tea.KeyPressMsg) bool {
	switch msg.String() {
	case "tab":
		p.focus = (p.focus + 1) % FocusRegionCount(WindowPomodoro)
		if p.focus == pomodoroFocusCustom {
			p.custom.CursorEnd()
		}
		return true
	case "esc":
		return true
	case "enter":
		if p.focus == pomodoroFocusMusic {
			m.playSelectedMusic()
		} else {
			m.commitPomodoro(*p)
		}
		return true
	}
	switch p.focus {
	case pomodoroFocusDuration:
		switch msg.String() {
		case "up", "k":
			p.durationIndex = clamp(p.durationIndex-1, 0, len(pomodoroDurations)-1)
			return true
		case "down", "j":
			p.durationIndex = clamp(p.durationIndex+1, 0, len(pomodoroDurations)-1)
			return true
		case "space":
			return true
		}
		return false
	case pomodoroFocusCustom:
		return p.custom.HandleKey(msg)
	default:
		return m.handleMusicKey(msg)
	}
}

// handleSettingsKey drives the playback flags, volume and music list.
func (m *Model) handleSettingsKey(p *settingsPayload, msg tea.KeyPressMsg) bool {
	switch msg.String() {
	case "tab":
		p.focus = (p.focus + 1) % FocusRegionCount(WindowSettings)
		return true
	case "esc":
		return true
	case "enter":
		if p.focus == settingsFocusMusic {
			m.playSelectedMusic()
		} else {
			m.commitSettings(*p)
		}
		return true
	}
	if p.focus == settingsFocusMusic {
		return m.handleMusicKey(msg)
	}
	switch msg.String() {
	case "space":
		switch p.focus {
		case settingsFocusPlayDuring:
			p.playDuring = !p.playDuring
		case settingsFocusPlayOnFinish:
			p.playOnFinish = !p.playOnFinish
		}
		return true
	case "up", "k":
		if p.focus > settingsFocusPlayDuring {
			p.focus--
		}
		return true
	case "down", "j":
		if p.focus < settingsFocusVolume {
			p.focus++
		}
		return true
	case "left", "h":
		if p.focus != settingsFocusVolume {
			return false
		}
		p.volume = clamp(p.volume-1, 0, 10)
		return true
	case "right", "l":
		if p.focus != settingsFocusVolume {
			return false
		}
		p.volume = clamp(p.volume+1, 0, 10)
		return true
	}
	return false
}

// handleTaskDetailKey starts tag entry on t and commits it on enter.
func (m *Model) handleTaskDetailKey(p *taskDetailPayload, msg tea.KeyPressMsg) bool {
	switch msg.String() {
	case "esc":
		return true
	case "enter":
		if p.tagging {
			m.commitTag(p.taskID, p.tag.Value())
		}
		return true
	}
	if !p.tagging {
		if msg.String() == "t" {
			p.tagging = true
			return true
		}
		return false
	}
	return p.tag.HandleKey(msg)
}

// handleSearchKey edits the query and selects the next match on Enter.
func (m *Model) handleSearchKey(p *searchPayload, msg tea.KeyPressMsg) bool {
	switch msg.String() {
	case "enter":
		m.selectNextMatch(p.query.Value())
		return true
	case "esc":
		return true
	}
	return p.query.HandleKey(msg)
}

// handleMusicKey drives the embedded music list.
func (m *Model) handleMusicKey(msg tea.KeyPressMsg) bool {
	switch msg.String() {
	case "up", "k":
		m.state.musicNav.Previous()
		return true
	case "down", "j":
		m.state.musicNav.Next()
		return true
	case "space":
		if err := m.player.Toggle(); err != nil {
			m.status = "playback failed: " + err.Error()
			return true
		}
		m.status = "music " + m.player.State().Status.String()
		return true
	case "s":
		m.player.Stop()
		m.status = "music stopped"
		return true
	}
	return false
}

// commitTag adds one tag to a task.
func (m *Model) commitTag(taskID, tag string) {
	if strings.TrimSpace(tag) == "" {
		m.status = "tag is required"
		return
	}
	task, err := m.svc.TagTask(m.ctx(), taskID, tag)
	if err != nil {
		m.status = "tag task failed: " + err.Error()
		m.logger.Warn("tag task failed", "task_id", taskID, "err", err)
		return
	}
	m.reloadTasks()
	m.status = fmt.Sprintf("tagged %q", task.Title)
	m.logger.Info("task tagged", "task_id", task.ID, "tag", tag)
}

// commitCreateTask creates a task from the form values.
func (m *Model) commitCreateTask(title, description string) {
	if strings.TrimSpace(title) == "" {
		m.status = "task title is required"
		return
	}
	task, err := m.svc.CreateTask(m.ctx(), app.CreateTaskInput{
		Title:       title,
		Description: description,
	})
	if err != nil {
		m.status = "create task failed: " + err.Error()
		m.logger.Error("create task failed", "err", err)
		return
	}
	m.reloadTasks()
	m.status = fmt.Sprintf("created %q", task.Title)
	m.logger.Info("task created", "task_id", task.ID)
}

// commitPomodoro stores the duration choice.
func (m *Model) commitPomodoro(p pomodoroPayload) {
	custom := 0
	if raw := strings.TrimSpace(p.custom.Value()); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			m.status = "custom duration must be a positive number of minutes"
			return
		}
		custom = n
	}
	m.state.settings.DurationIndex = p.durationIndex
	m.state.settings.CustomMinutes = custom
	minutes := m.state.settings.Minutes()
	m.status = fmt.Sprintf("pomodoro set to %d minutes", minutes)
	m.logger.Info("pomodoro settings saved", "minutes", minutes)
}

// commitSettings stores the playback flags and volume.
func (m *Model) commitSettings(p settingsPayload) {
	m.state.settings.PlayDuring = p.playDuring
	m.state.settings.PlayOnFinish = p.playOnFinish
	m.state.settings.Volume = float64(p.volume) / 10
	m.player.SetVolume(m.state.settings.Volume)
	m.status = "settings saved"
	m.logger.Info("settings saved", "play_during", p.playDuring, "play_on_finish", p.playOnFinish, "volume", m.state.settings.Volume)
}

// playSelectedMusic plays the focused music list entry.
func (m *Model) playSelectedMusic() {
	idx, ok := m.state.musicNav.Selected()
	if !ok {
		m.status = "no music files found"
		return
	}
	if err := m.player.Play(idx); err != nil {
		m.status = "playback failed: " + err.Error()
		return
	}
	m.status = "playing " + m.player.Files()[idx].Name
}

// selectNextMatch selects the next task after the current one that matches query.
func (m *Model) selectNextMatch(query string) {
	if strings.TrimSpace(query) == "" {
		m.status = "type a query to search"
		return
	}
	total := len(m.state.tasks)
	start, ok := m.state.taskNav.Selected()
	if !ok {
		start = -1
	}
	for step := 1; step <= total; step++ {
		idx := wrapIndex(start, step, total)
		if m.state.tasks[idx].Matches(query) {
			m.state.taskNav.Select(idx)
			m.status = fmt.Sprintf("found %q", m.state.tasks[idx].Title)
			return
		}
	}
	m.status = fmt.Sprintf("no task matches %q", query)
}

// taskByID returns the task with id from the loaded list.
func (s *appState) taskByID(id string) (domain.Task, bool) {
	for _, task := range s.tasks {
		if task.ID == id {
			return task, true
		}
	}
	return domain.Task{}, false
}
