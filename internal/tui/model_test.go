package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/pomotask/internal/app"
	"github.com/evanschultz/pomotask/internal/domain"
	"github.com/evanschultz/pomotask/internal/playback"
)

type fakeService struct {
	tasks  []domain.Task
	now    *time.Time
	nextID int
	err    error
}

func newFakeService(now *time.Time, tasks ...domain.Task) *fakeService {
	return &fakeService{tasks: append([]domain.Task(nil), tasks...), now: now}
}

func (f *fakeService) ListTasks(context.Context) ([]domain.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.Task(nil), f.tasks...), nil
}

func (f *fakeService) CreateTask(_ context.Context, in app.CreateTaskInput) (domain.Task, error) {
	f.nextID++
	task, err := domain.NewTask(domain.TaskInput{
		ID:          fmt.Sprintf("t-new-%d", f.nextID),
		Title:       in.Title,
		Description: in.Description,
		Tags:        in.Tags,
		DueAt:       in.DueAt,
	}, *f.now)
	if err != nil {
		return domain.Task{}, err
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

func (f *fakeService) CompleteTask(_ context.Context, taskID string) (domain.Task, error) {
	for idx := range f.tasks {
		if f.tasks[idx].ID == taskID {
			f.tasks[idx].Complete(*f.now)
			return f.tasks[idx], nil
		}
	}
	return domain.Task{}, app.ErrNotFound
}

func (f *fakeService) TagTask(_ context.Context, taskID, tag string) (domain.Task, error) {
	for idx := range f.tasks {
		if f.tasks[idx].ID == taskID {
			if err := f.tasks[idx].AddTag(tag); err != nil {
				return domain.Task{}, err
			}
			return f.tasks[idx], nil
		}
	}
	return domain.Task{}, app.ErrNotFound
}

func (f *fakeService) RefreshStatuses(ctx context.Context) ([]domain.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	for idx := range f.tasks {
		f.tasks[idx].RecomputeStatus(*f.now)
	}
	return f.ListTasks(ctx)
}

type fakePlayer struct {
	files   []domain.AudioFileInfo
	state   playback.State
	played  []int
	toggles int
	stops   int
	playErr error
}

func newFakePlayer(names ...string) *fakePlayer {
	p := &fakePlayer{state: playback.State{Current: -1, Volume: playback.DefaultVolume}}
	for _, name := range names {
		p.files = append(p.files, domain.AudioFileInfo{Name: name, Path: "/music/" + name + ".mp3"})
	}
	return p
}

func (p *fakePlayer) Files() []domain.AudioFileInfo { return p.files }

func (p *fakePlayer) Play(index int) error {
	p.played = append(p.played, index)
	p.state.Current = index
	if p.playErr != nil {
		p.state.Status = playback.StatusStopped
		return p.playErr
	}
	p.state.Status = playback.StatusPlaying
	return nil
}

func (p *fakePlayer) Toggle() error {
	p.toggles++
	switch p.state.Status {
	case playback.StatusPlaying:
		p.state.Status = playback.StatusPaused
	case playback.StatusPaused:
		p.state.Status = playback.StatusPlaying
	}
	return nil
}

func (p *fakePlayer) Stop() {
	p.stops++
	p.state.Status = playback.StatusStopped
}

func (p *fakePlayer) SetVolume(v float64) { p.state.Volume = v }

func (p *fakePlayer) State() playback.State { return p.state }

type recordingLogger struct {
	warns  []string
	errors []string
}

func (l *recordingLogger) Debug(string, ...any)     {}
func (l *recordingLogger) Info(string, ...any)      {}
func (l *recordingLogger) Warn(msg string, _ ...any) { l.warns = append(l.warns, msg) }
func (l *recordingLogger) Error(msg string, _ ...any) {
	l.errors = append(l.errors, msg)
}

func testClock() *time.Time {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	return &now
}

func mustTask(t *testing.T, id, title string, now time.Time) domain.Task {
	t.Helper()
	task, err := domain.NewTask(domain.TaskInput{ID: id, Title: title}, now)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	return task
}

func typeKeys(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = applyMsg(t, m, keyRune(r))
	}
	return m
}

func selectedIndex(m Model) int {
	idx, ok := m.state.taskNav.Selected()
	if !ok {
		return -1
	}
	return idx
}

// TestModelCreateTaskFlow verifies typing a task into the create window and committing it.
func TestModelCreateTaskFlow(t *testing.T) {
	now := testClock()
	svc := newFakeService(now)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, keyRune('a'))
	if m.state.window == nil || m.state.window.Kind != WindowCreateTask {
		t.Fatalf("expected create window, got %#v", m.state.window)
	}
	m = typeKeys(t, m, "Buy milk")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = typeKeys(t, m, "2%")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if m.state.window != nil {
		t.Fatalf("expected window closed after enter, got %#v", m.state.window)
	}
	if len(m.state.tasks) != 1 {
		t.Fatalf("expected one task, got %d", len(m.state.tasks))
	}
	task := m.state.tasks[0]
	if task.Title != "Buy milk" || task.Description != "2%" || task.Status != domain.StatusTodo {
		t.Fatalf("unexpected created task %#v", task)
	}
	if !strings.Contains(m.status, "Buy milk") {
		t.Fatalf("expected status to name the task, got %q", m.status)
	}
}

// TestModelCreateTaskRejectsEmptyTitle verifies the window closes without a write.
func TestModelCreateTaskRejectsEmptyTitle(t *testing.T) {
	svc := newFakeService(testClock())
	m := loadReadyModel(t, NewModel(svc))
	m = applyMsg(t, m, keyRune('n'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.state.window != nil {
		t.Fatal("expected window closed")
	}
	if len(svc.tasks) != 0 {
		t.Fatalf("expected no task created, got %d", len(svc.tasks))
	}
	if m.status != "task title is required" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

// TestModelNavigationWraps verifies j/k wrap around the list.
func TestModelNavigationWraps(t *testing.T) {
	now := testClock()
	a := mustTask(t, "a", "A", *now)
	b := mustTask(t, "b", "B", *now)
	b.Complete(*now)
	m := loadReadyModel(t, NewModel(newFakeService(now, a, b)))

	if selectedIndex(m) != 0 {
		t.Fatalf("expected initial selection 0, got %d", selectedIndex(m))
	}
	m = applyMsg(t, m, keyRune('j'))
	if selectedIndex(m) != 1 {
		t.Fatalf("expected selection 1, got %d", selectedIndex(m))
	}
	m = applyMsg(t, m, keyRune('j'))
	if selectedIndex(m) != 0 {
		t.Fatalf("expected wrap to 0, got %d", selectedIndex(m))
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyUp})
	if selectedIndex(m) != 1 {
		t.Fatalf("expected wrap back to 1, got %d", selectedIndex(m))
	}
	if m.state.tasks[1].Status != domain.StatusCompleted {
		t.Fatalf("expected completed status kept, got %q", m.state.tasks[1].Status)
	}
}

// TestModelNavigationIgnoredWhileWindowOpen verifies list keys do not leak through text fields.
func TestModelNavigationIgnoredWhileWindowOpen(t *testing.T) {
	now := testClock()
	m := loadReadyModel(t, NewModel(newFakeService(now, mustTask(t, "a", "A", *now), mustTask(t, "b", "B", *now))))
	m = applyMsg(t, m, keyRune('a'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	m = applyMsg(t, m, keyRune('j'))
	if selectedIndex(m) != 0 {
		t.Fatalf("expected selection unchanged, got %d", selectedIndex(m))
	}
	payload := m.state.window.Payload.(createTaskPayload)
	if payload.fields[0].Value() != "j" {
		t.Fatalf("expected j typed into the title, got %q", payload.fields[0].Value())
	}
}

// TestModelRejectsSecondWindow verifies open-while-open is refused and logged.
func TestModelRejectsSecondWindow(t *testing.T) {
	logger := &recordingLogger{}
	m := loadReadyModel(t, NewModel(newFakeService(testClock()), WithLogger(logger)))
	m = applyMsg(t, m, keyRune('p'))
	m = applyMsg(t, m, keyRune('a'))
	if m.state.window == nil || m.state.window.Kind != WindowPomodoro {
		t.Fatalf("expected pomodoro window kept, got %#v", m.state.window)
	}
	if !strings.Contains(m.status, "close the open window") {
		t.Fatalf("unexpected status %q", m.status)
	}
	if len(logger.warns) != 1 {
		t.Fatalf("expected one warning, got %#v", logger.warns)
	}

	state := m.state
	if err := state.openWindow(WindowSearch); !errors.Is(err, ErrWindowOpen) {
		t.Fatalf("expected ErrWindowOpen, got %v", err)
	}
}

// TestWindowClosingPolicy verifies which keys close each window kind.
func TestWindowClosingPolicy(t *testing.T) {
	now := testClock()
	kinds := []WindowKind{WindowCreateTask, WindowPomodoro, WindowSettings, WindowSearch, WindowTaskDetail}
	closesOnEnterWant := map[WindowKind]bool{
		WindowCreateTask: true,
		WindowPomodoro:   false,
		WindowSettings:   false,
		WindowSearch:     true,
		WindowTaskDetail: true,
	}
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			m := loadReadyModel(t, NewModel(newFakeService(now, mustTask(t, "a", "A", *now))))
			if err := m.state.openWindow(kind); err != nil {
				t.Fatalf("openWindow() error = %v", err)
			}
			next, handled := m.dispatchWindow(*m.state.window, tea.KeyPressMsg{Code: tea.KeyEscape})
			if next != nil || !handled {
				t.Fatalf("expected esc to close, got %#v handled=%t", next, handled)
			}
			next, _ = m.dispatchWindow(*m.state.window, tea.KeyPressMsg{Code: tea.KeyEnter})
			if closed := next == nil; closed != closesOnEnterWant[kind] {
				t.Fatalf("enter closed=%t want %t", closed, closesOnEnterWant[kind])
			}
		})
	}
}

// TestWindowFocusCycles verifies tab advances focus modulo the region count.
func TestWindowFocusCycles(t *testing.T) {
	for _, kind := range []WindowKind{WindowCreateTask, WindowPomodoro, WindowSettings, WindowSearch} {
		t.Run(kind.String(), func(t *testing.T) {
			m := loadReadyModel(t, NewModel(newFakeService(testClock())))
			if err := m.state.openWindow(kind); err != nil {
				t.Fatalf("openWindow() error = %v", err)
			}
			count := FocusRegionCount(kind)
			for step := 1; step <= count; step++ {
				next, _ := m.dispatchWindow(*m.state.window, tea.KeyPressMsg{Code: tea.KeyTab})
				m.state.window = next
				if got, want := next.Focus(), step%count; got != want {
					t.Fatalf("step %d: focus %d want %d", step, got, want)
				}
			}
		})
	}
}

// TestCreateTaskTabMovesCursorToEnd verifies the activated field's cursor lands at the end.
func TestCreateTaskTabMovesCursorToEnd(t *testing.T) {
	m := loadReadyModel(t, NewModel(newFakeService(testClock())))
	m = applyMsg(t, m, keyRune('a'))
	m = typeKeys(t, m, "abc")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyHome})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	payload := m.state.window.Payload.(createTaskPayload)
	if payload.active != 0 || payload.fields[0].Cursor() != 3 {
		t.Fatalf("expected title active with cursor 3, got active=%d cursor=%d", payload.active, payload.fields[0].Cursor())
	}
}

// TestWindowLayout verifies per-kind sizing and the fallback terminal size.
func TestWindowLayout(t *testing.T) {
	cases := []struct {
		kind          WindowKind
		width, height int
		want          Rect
	}{
		{WindowCreateTask, 100, 40, Rect{X: 15, Y: 2, Width: 70, Height: 32}},
		{WindowPomodoro, 100, 40, Rect{X: 10, Y: 3, Width: 80, Height: 34}},
		{WindowSettings, 100, 40, Rect{X: 12, Y: 2, Width: 75, Height: 36}},
		{WindowSearch, 100, 40, Rect{X: 15, Y: 6, Width: 70, Height: 28}},
		{WindowCreateTask, 0, 0, Rect{X: 18, Y: 2, Width: 84, Height: 24}},
	}
	for _, tc := range cases {
		if got := windowLayout(tc.kind, tc.width, tc.height); got != tc.want {
			t.Fatalf("%s %dx%d: got %#v want %#v", tc.kind, tc.width, tc.height, got, tc.want)
		}
	}
}

// TestPomodoroWindowSavesDuration verifies duration and custom minutes commit on enter.
func TestPomodoroWindowSavesDuration(t *testing.T) {
	m := loadReadyModel(t, NewModel(newFakeService(testClock())))
	m = applyMsg(t, m, keyRune('p'))
	m = applyMsg(t, m, keyRune('j'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.state.window == nil {
		t.Fatal("expected pomodoro window to stay open on enter")
	}
	if m.state.settings.DurationIndex != 4 || m.state.settings.Minutes() != 45 {
		t.Fatalf("expected clamped 45 minute choice, got %#v", m.state.settings)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = typeKeys(t, m, "5x0")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.state.settings.CustomMinutes != 50 || m.state.settings.Minutes() != 50 {
		t.Fatalf("expected custom 50 minutes, got %#v", m.state.settings)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.state.window != nil {
		t.Fatal("expected esc to close the pomodoro window")
	}
}

// TestSettingsWindowTogglesAndVolume verifies flag and volume edits.
func TestSettingsWindowTogglesAndVolume(t *testing.T) {
	player := newFakePlayer()
	m := loadReadyModel(t, NewModel(newFakeService(testClock()), WithPlayer(player)))
	m = applyMsg(t, m, keyRune('o'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	for range 3 {
		m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if got := m.state.window.Focus(); got != settingsFocusVolume {
		t.Fatalf("expected down to stop at the volume region, got %d", got)
	}
	for range 3 {
		m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyLeft})
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.state.window == nil {
		t.Fatal("expected settings window to stay open on enter")
	}
	if m.state.settings.PlayDuring || !m.state.settings.PlayOnFinish {
		t.Fatalf("unexpected flags %#v", m.state.settings)
	}
	if m.state.settings.Volume != 0.5 || player.state.Volume != 0.5 {
		t.Fatalf("expected volume 0.5, got settings=%v player=%v", m.state.settings.Volume, player.state.Volume)
	}
}

// TestMusicRegionControlsPlayer verifies play, toggle and stop from the pomodoro window.
func TestMusicRegionControlsPlayer(t *testing.T) {
	player := newFakePlayer("focus", "rain")
	m := loadReadyModel(t, NewModel(newFakeService(testClock()), WithPlayer(player)))
	m = applyMsg(t, m, keyRune('p'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(player.played) != 1 || player.played[0] != 1 {
		t.Fatalf("expected file 1 played, got %#v", player.played)
	}
	if m.status != "playing rain" {
		t.Fatalf("unexpected status %q", m.status)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	if player.toggles != 1 || player.state.Status != playback.StatusPaused {
		t.Fatalf("expected paused after space, got %#v", player.state)
	}
	m = applyMsg(t, m, keyRune('s'))
	if player.stops != 1 || m.state.window == nil {
		t.Fatalf("expected stop with window open, stops=%d", player.stops)
	}

	player.playErr = &playback.Error{Stage: playback.StageDecode, Path: "/music/focus.mp3", Err: errors.New("bad frame")}
	m = applyMsg(t, m, keyRune('k'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.HasPrefix(m.status, "playback failed") {
		t.Fatalf("expected playback failure status, got %q", m.status)
	}
}

// TestMusicListScrollbarFollowsSelection verifies the music list scrollbar tracks the navigator.
func TestMusicListScrollbarFollowsSelection(t *testing.T) {
	player := newFakePlayer("a1", "a2", "a3", "a4", "a5", "a6")
	m := NewModel(newFakeService(testClock()), WithPlayer(player))

	lines := strings.Split(m.renderMusicList(true, 40, 3), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rendered rows, got %d:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if !strings.Contains(lines[0], "┃") || strings.Contains(lines[2], "┃") {
		t.Fatalf("expected thumb on the first row, got\n%s", strings.Join(lines, "\n"))
	}

	for range 5 {
		m.state.musicNav.Next()
	}
	lines = strings.Split(m.renderMusicList(true, 40, 3), "\n")
	if !strings.Contains(lines[2], "┃") || strings.Contains(lines[0], "┃") {
		t.Fatalf("expected thumb on the last row, got\n%s", strings.Join(lines, "\n"))
	}
	if !strings.Contains(lines[2], "a6") {
		t.Fatalf("expected last file visible, got\n%s", strings.Join(lines, "\n"))
	}
}

// TestSearchSelectsNextMatch verifies enter jumps to the next match after the selection.
func TestSearchSelectsNextMatch(t *testing.T) {
	now := testClock()
	svc := newFakeService(now,
		mustTask(t, "a", "Write report", *now),
		mustTask(t, "b", "Buy milk", *now),
		mustTask(t, "c", "Milk the cow", *now),
	)
	m := loadReadyModel(t, NewModel(svc))
	search := func(query string) {
		m = applyMsg(t, m, keyRune('/'))
		m = typeKeys(t, m, query)
		m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
		if m.state.window != nil {
			t.Fatal("expected search window closed")
		}
	}
	for _, want := range []int{1, 2, 1} {
		search("MILK")
		if got := selectedIndex(m); got != want {
			t.Fatalf("expected selection %d, got %d", want, got)
		}
	}
	search("tea")
	if selectedIndex(m) != 1 || !strings.Contains(m.status, "no task matches") {
		t.Fatalf("expected unchanged selection with status, got %d %q", selectedIndex(m), m.status)
	}
}

// TestCompleteAndCopySelectedTask verifies the x and y shortcuts.
func TestCompleteAndCopySelectedTask(t *testing.T) {
	now := testClock()
	var copied string
	m := loadReadyModel(t, NewModel(
		newFakeService(now, mustTask(t, "a", "Ship it", *now)),
		WithClipboard(func(s string) error {
			copied = s
			return nil
		}),
	))
	m = applyMsg(t, m, keyRune('x'))
	if m.state.tasks[0].Status != domain.StatusCompleted || m.state.tasks[0].FinishedAt == nil {
		t.Fatalf("expected completed task, got %#v", m.state.tasks[0])
	}
	m = applyMsg(t, m, keyRune('y'))
	if copied != "Ship it" || m.status != "copied task title" {
		t.Fatalf("unexpected copy result %q status %q", copied, m.status)
	}
}

// TestStatusRefreshedBeforeKey verifies statuses follow the clock between key presses.
func TestStatusRefreshedBeforeKey(t *testing.T) {
	now := testClock()
	due := now.Add(time.Hour)
	task, err := domain.NewTask(domain.TaskInput{ID: "a", Title: "Call", DueAt: &due}, *now)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	m := loadReadyModel(t, NewModel(newFakeService(now, task)))
	if m.state.tasks[0].Status != domain.StatusDueToday {
		t.Fatalf("expected due today, got %q", m.state.tasks[0].Status)
	}
	*now = now.Add(2 * time.Hour)
	m = applyMsg(t, m, keyRune('j'))
	if m.state.tasks[0].Status != domain.StatusOverdue {
		t.Fatalf("expected overdue after clock moved, got %q", m.state.tasks[0].Status)
	}
}

// TestTaskDetailWindow verifies the detail window targets the selection and renders it.
func TestTaskDetailWindow(t *testing.T) {
	now := testClock()
	task, err := domain.NewTask(domain.TaskInput{ID: "a", Title: "Plan sprint", Description: "pick **three** goals", Tags: []string{"work"}}, *now)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	m := loadReadyModel(t, NewModel(newFakeService(now, task)))
	m = applyMsg(t, m, keyRune('i'))
	if m.state.window == nil || m.state.window.Kind != WindowTaskDetail {
		t.Fatalf("expected task detail window, got %#v", m.state.window)
	}
	if id := m.state.window.Payload.(taskDetailPayload).taskID; id != "a" {
		t.Fatalf("expected detail for task a, got %q", id)
	}
	out := viewContent(m)
	if !strings.Contains(out, "Task Details") || !strings.Contains(out, "#work") {
		t.Fatalf("expected detail overlay in view, got\n%s", out)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.state.window != nil {
		t.Fatal("expected enter to close task detail")
	}
}

// TestTaskDetailAddsTag verifies t starts tag entry and enter commits it before closing.
func TestTaskDetailAddsTag(t *testing.T) {
	now := testClock()
	svc := newFakeService(now, mustTask(t, "a", "Plan sprint", *now))
	m := loadReadyModel(t, NewModel(svc))
	m = applyMsg(t, m, keyRune('i'))
	m = applyMsg(t, m, keyRune('t'))
	if p := m.state.window.Payload.(taskDetailPayload); !p.tagging {
		t.Fatal("expected t to start tag entry")
	}
	m = typeKeys(t, m, "Quarter")
	if out := viewContent(m); !strings.Contains(out, "Quarter") {
		t.Fatalf("expected typed tag in view, got\n%s", out)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.state.window != nil {
		t.Fatal("expected enter to close task detail")
	}
	if got := svc.tasks[0].TagNames(); len(got) != 1 || got[0] != "quarter" {
		t.Fatalf("expected normalized tag quarter, got %#v", got)
	}
	if !strings.Contains(m.status, "tagged") {
		t.Fatalf("expected tagged status, got %q", m.status)
	}

	m = applyMsg(t, m, keyRune('i'))
	m = applyMsg(t, m, keyRune('t'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.status != "tag is required" {
		t.Fatalf("expected blank tag rejection, got %q", m.status)
	}
}

// TestDashboardDismissedByFirstKey verifies the welcome screen swallows one key.
func TestDashboardDismissedByFirstKey(t *testing.T) {
	m := loadReadyModel(t, NewModel(newFakeService(testClock()), WithDashboard(true, "v1.2.3")))
	if out := viewContent(m); !strings.Contains(out, "press any key") || !strings.Contains(out, "v1.2.3") {
		t.Fatalf("expected dashboard view, got\n%s", out)
	}
	m = applyMsg(t, m, keyRune('a'))
	if m.showDashboard || m.state.window != nil {
		t.Fatalf("expected dashboard dismissed without opening a window, window=%#v", m.state.window)
	}
	m = applyMsg(t, m, keyRune('a'))
	if m.state.window == nil {
		t.Fatal("expected second key to open the create window")
	}
}

// TestModelLoadErrorView verifies load failures surface in the view and q still quits.
func TestModelLoadErrorView(t *testing.T) {
	svc := newFakeService(testClock())
	svc.err = errors.New("boom")
	m := loadReadyModel(t, NewModel(svc))
	if out := viewContent(m); !strings.Contains(out, "error: boom") {
		t.Fatalf("expected error view, got %q", out)
	}
	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

// TestTaskListRendering verifies icons and due labels in the list.
func TestTaskListRendering(t *testing.T) {
	now := testClock()
	due := now.AddDate(0, 0, 3)
	later, err := domain.NewTask(domain.TaskInput{ID: "a", Title: "Renew passport", DueAt: &due}, *now)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	done := mustTask(t, "b", "Laundry", *now)
	done.Complete(*now)
	m := loadReadyModel(t, NewModel(newFakeService(now, later, done), WithClock(func() time.Time { return *now })))
	out := viewContent(m)
	for _, want := range []string{"○ Renew passport (3d)", "✔ Laundry", "1 open"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view\n%s", want, out)
		}
	}
}

func viewContent(m Model) string {
	return fmt.Sprint(m.View().Content)
}

func loadReadyModel(t *testing.T, m Model) Model {
	t.Helper()
	return applyMsg(t, applyCmd(t, m, m.Init()), tea.WindowSizeMsg{Width: 120, Height: 40})
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}
