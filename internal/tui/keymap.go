package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// KeyConfig overrides secondary global shortcuts. Blank fields keep defaults.
type KeyConfig struct {
	Search     string
	TaskInfo   string
	Complete   string
	CopyTitle  string
	ToggleHelp string
}

// keyMap represents key map data used by this package.
type keyMap struct {
	quit        key.Binding
	toggleHelp  key.Binding
	moveUp      key.Binding
	moveDown    key.Binding
	addTask     key.Binding
	pomodoro    key.Binding
	settings    key.Binding
	search      key.Binding
	taskInfo    key.Binding
	complete    key.Binding
	copyTitle   key.Binding
	nextField   key.Binding
	closeWindow key.Binding
	musicToggle key.Binding
	musicStop   key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveUp:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "task up")),
		moveDown:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "task down")),
		addTask:     key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a/n", "new task")),
		pomodoro:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pomodoro")),
		settings:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "settings")),
		search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		taskInfo:    key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "task info")),
		complete:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "complete task")),
		copyTitle:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy title")),
		nextField:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		closeWindow: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		musicToggle: key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "play/pause")),
		musicStop:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop music")),
	}
}

// applyConfig applies configured overrides.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.search, cfg.Search, "/", "search")
	configureBinding(&k.taskInfo, cfg.TaskInfo, "i", "task info")
	configureBinding(&k.complete, cfg.Complete, "x", "complete task")
	configureBinding(&k.copyTitle, cfg.CopyTitle, "y", "copy title")
	configureBinding(&k.toggleHelp, cfg.ToggleHelp, "?", "toggle help")
}

// configureBinding replaces a binding when an override is set.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	keys, help := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(help, desc)
}

// parseBindingKeys converts a configured key into matcher keys and help text.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	if strings.EqualFold(raw, "space") || raw == " " {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(raw) == 1 {
		r, _ := utf8.DecodeRuneInString(raw)
		if unicode.IsUpper(r) {
			return []string{raw, "shift+" + string(unicode.ToLower(r))}, raw
		}
		return []string{raw}, raw
	}
	return []string{strings.ToLower(raw)}, raw
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addTask, k.pomodoro, k.settings, k.search, k.taskInfo, k.complete, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addTask, k.pomodoro, k.settings, k.search, k.taskInfo, k.complete, k.copyTitle, k.toggleHelp, k.quit},
		{k.moveUp, k.moveDown, k.nextField, k.closeWindow},
		{k.musicToggle, k.musicStop},
	}
}
