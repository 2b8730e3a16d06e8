package tui

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/evanschultz/pomotask/internal/app"
	"github.com/evanschultz/pomotask/internal/domain"
	"github.com/evanschultz/pomotask/internal/playback"
)

// Service represents service data used by this package.
type Service interface {
	ListTasks(context.Context) ([]domain.Task, error)
	CreateTask(context.Context, app.CreateTaskInput) (domain.Task, error)
	CompleteTask(context.Context, string) (domain.Task, error)
	TagTask(context.Context, string, string) (domain.Task, error)
	RefreshStatuses(context.Context) ([]domain.Task, error)
}

// Player controls background music.
type Player interface {
	Files() []domain.AudioFileInfo
	Play(int) error
	Toggle() error
	Stop()
	SetVolume(float64)
	State() playback.State
}

// Logger receives structured diagnostics as key-value pairs.
type Logger interface {
	Debug(string, ...any)
	Info(string, ...any)
	Warn(string, ...any)
	Error(string, ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// appState is the mutable aggregate edited by key handling.
type appState struct {
	tasks    []domain.Task
	taskNav  listNav
	musicNav listNav
	window   *ActiveWindow
	settings Settings
	width    int
	height   int
}

// selectedTask returns the task under the list cursor.
func (s *appState) selectedTask() (domain.Task, bool) {
	idx, ok := s.taskNav.Selected()
	if !ok {
		return domain.Task{}, false
	}
	return s.tasks[idx], true
}

// setTasks replaces the task list and keeps the selection in range.
func (s *appState) setTasks(tasks []domain.Task) {
	s.tasks = tasks
	s.taskNav.SetLen(len(tasks))
}

// Model represents model data used by this package.
type Model struct {
	svc      Service
	player   Player
	logger   Logger
	now      func() time.Time
	copyText func(string) error

	ready         bool
	err           error
	status        string
	showDashboard bool
	version       string

	help help.Model
	keys keyMap
	md   *markdownRenderer

	state appState
}

// loadedMsg carries the initial task list.
type loadedMsg struct {
	tasks []domain.Task
	err   error
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:      svc,
		player:   playback.NewController(nil, nil),
		logger:   nopLogger{},
		now:      time.Now,
		copyText: clipboard.WriteAll,
		help:     h,
		keys:     newKeyMap(),
		md:       &markdownRenderer{},
		state: appState{
			taskNav:  newListNav(0),
			settings: DefaultSettings(),
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.state.musicNav = newListNav(len(m.player.Files()))
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.state.width = msg.Width
		m.state.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.logger.Error("load tasks failed", "err", msg.err)
			return m, nil
		}
		m.err = nil
		m.state.setTasks(msg.tasks)
		m.logger.Debug("tasks loaded", "count", len(msg.tasks))
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// loadData refreshes statuses and returns the task list.
func (m Model) loadData() tea.Msg {
	tasks, err := m.svc.RefreshStatuses(context.Background())
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{tasks: tasks}
}

// ctx returns the context used for store calls made during key handling.
func (m *Model) ctx() context.Context {
	return context.Background()
}

// refreshStatuses recomputes stored statuses against the clock before a key is handled.
func (m *Model) refreshStatuses() {
	tasks, err := m.svc.RefreshStatuses(m.ctx())
	if err != nil {
		m.logger.Warn("refresh task statuses failed", "err", err)
		return
	}
	m.state.setTasks(tasks)
}

// reloadTasks re-reads the task list after a write.
func (m *Model) reloadTasks() {
	tasks, err := m.svc.ListTasks(m.ctx())
	if err != nil {
		m.status = "reload failed: " + err.Error()
		m.logger.Error("reload tasks failed", "err", err)
		return
	}
	m.state.setTasks(tasks)
}

// openWindow opens kind and reports a rejected request on the status line.
func (m *Model) openWindow(kind WindowKind) {
	if err := m.state.openWindow(kind); err != nil {
		m.status = "close the open window first"
		m.logger.Warn("window open rejected", "requested", kind.String(), "err", err)
		return
	}
	m.logger.Debug("window opened", "kind", kind.String())
}

// completeSelected completes the task under the cursor.
func (m *Model) completeSelected() {
	task, ok := m.state.selectedTask()
	if !ok {
		m.status = "no task selected"
		return
	}
	updated, err := m.svc.CompleteTask(m.ctx(), task.ID)
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			m.reloadTasks()
		}
		m.status = "complete failed: " + err.Error()
		m.logger.Error("complete task failed", "task_id", task.ID, "err", err)
		return
	}
	m.reloadTasks()
	m.status = "completed \"" + updated.Title + "\""
}

// copySelectedTitle copies the selected task title to the system clipboard.
func (m *Model) copySelectedTitle() {
	task, ok := m.state.selectedTask()
	if !ok {
		m.status = "no task selected"
		return
	}
	if err := m.copyText(task.Title); err != nil {
		m.status = "copy failed: " + err.Error()
		m.logger.Warn("clipboard write failed", "err", err)
		return
	}
	m.status = "copied task title"
}
