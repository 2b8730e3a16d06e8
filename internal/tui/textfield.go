package tui

import (
	"unicode"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// cursorStyle marks the cursor cell in a focused field.
var cursorStyle = lipgloss.NewStyle().Reverse(true)

// textField is a single-line rune buffer with a cursor.
// The cursor is a rune index in [0, len(value)].
type textField struct {
	value  []rune
	cursor int
	limit  int
	accept func(rune) bool
}

// newTextField constructs a field holding value with the cursor at the end.
func newTextField(value string) textField {
	f := textField{}
	f.SetValue(value)
	return f
}

// newDigitField constructs a field that only accepts up to limit digits.
func newDigitField(limit int) textField {
	return textField{limit: limit, accept: unicode.IsDigit}
}

// Value returns the buffer contents.
func (f textField) Value() string {
	return string(f.value)
}

// Cursor returns the cursor rune index.
func (f textField) Cursor() int {
	return f.cursor
}

// Len returns the buffer length in runes.
func (f textField) Len() int {
	return len(f.value)
}

// SetValue replaces the buffer and moves the cursor to the end.
func (f *textField) SetValue(value string) {
	f.value = []rune(value)
	f.cursor = len(f.value)
}

// CursorEnd moves the cursor to the end of the buffer.
func (f *textField) CursorEnd() {
	f.cursor = len(f.value)
}

// HandleKey applies one editing key and reports whether it was consumed.
func (f *textField) HandleKey(msg tea.KeyPressMsg) bool {
	switch msg.Code {
	case tea.KeyLeft:
		if f.cursor > 0 {
			f.cursor--
		}
		return true
	case tea.KeyRight:
		if f.cursor < len(f.value) {
			f.cursor++
		}
		return true
	case tea.KeyHome:
		f.cursor = 0
		return true
	case tea.KeyEnd:
		f.cursor = len(f.value)
		return true
	case tea.KeyBackspace:
		if f.cursor > 0 {
			f.value = spliceRunes(f.value, f.cursor-1, f.cursor, nil)
			f.cursor--
		}
		return true
	case tea.KeyDelete:
		if f.cursor < len(f.value) {
			f.value = spliceRunes(f.value, f.cursor, f.cursor+1, nil)
		}
		return true
	}
	if msg.Mod&(tea.ModCtrl|tea.ModAlt) != 0 || msg.Text == "" {
		return false
	}
	for _, r := range msg.Text {
		f.insert(r)
	}
	return true
}

// insert adds r at the cursor when the filter and limit allow it.
func (f *textField) insert(r rune) {
	if !unicode.IsPrint(r) {
		return
	}
	if f.accept != nil && !f.accept(r) {
		return
	}
	if f.limit > 0 && len(f.value) >= f.limit {
		return
	}
	f.value = spliceRunes(f.value, f.cursor, f.cursor, []rune{r})
	f.cursor++
}

// spliceRunes returns a fresh slice with in[from:to] replaced by repl.
func spliceRunes(in []rune, from, to int, repl []rune) []rune {
	out := make([]rune, 0, len(in)-(to-from)+len(repl))
	out = append(out, in[:from]...)
	out = append(out, repl...)
	return append(out, in[to:]...)
}

// renderWithCursor returns the value with a block cursor at the cursor position.
func (f textField) renderWithCursor(focused bool) string {
	if !focused {
		return string(f.value)
	}
	if f.cursor >= len(f.value) {
		return string(f.value) + cursorStyle.Render(" ")
	}
	return string(f.value[:f.cursor]) + cursorStyle.Render(string(f.value[f.cursor])) + string(f.value[f.cursor+1:])
}
