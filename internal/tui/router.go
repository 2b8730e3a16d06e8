package tui

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// handleKey routes one key press: dashboard, then the open window, then the global table.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.showDashboard {
		m.showDashboard = false
		return m, nil
	}
	if m.err != nil {
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	m.refreshStatuses()
	if m.state.window != nil {
		next, handled := m.dispatchWindow(*m.state.window, msg)
		m.state.window = next
		if next == nil || handled {
			return m, nil
		}
	}
	return m.handleGlobalKey(msg)
}

// handleGlobalKey applies the global shortcut table.
func (m Model) handleGlobalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		if m.state.window == nil {
			m.state.taskNav.Next()
		}
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		if m.state.window == nil {
			m.state.taskNav.Previous()
		}
		return m, nil
	case key.Matches(msg, m.keys.addTask):
		m.openWindow(WindowCreateTask)
		return m, nil
	case key.Matches(msg, m.keys.pomodoro):
		m.openWindow(WindowPomodoro)
		return m, nil
	case key.Matches(msg, m.keys.settings):
		m.openWindow(WindowSettings)
		return m, nil
	case key.Matches(msg, m.keys.search):
		m.openWindow(WindowSearch)
		return m, nil
	case key.Matches(msg, m.keys.taskInfo):
		if _, ok := m.state.selectedTask(); !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.openWindow(WindowTaskDetail)
		return m, nil
	case key.Matches(msg, m.keys.complete):
		m.completeSelected()
		return m, nil
	case key.Matches(msg, m.keys.copyTitle):
		m.copySelectedTitle()
		return m, nil
	}
	return m, nil
}
