package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// minDescriptionWrap keeps narrow windows from wrapping descriptions into single words.
const minDescriptionWrap = 24

// markdownRenderer renders task descriptions and caches the last result, since View runs every frame.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer

	lastSource string
	lastOutput string
}

// render converts a task description into styled terminal text wrapped at width.
func (r *markdownRenderer) render(description string, width int) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}
	wrap := max(width, minDescriptionWrap)

	if r.renderer == nil || r.width != wrap {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return description
		}
		r.renderer = renderer
		r.width = wrap
		r.lastSource = ""
	}
	if description == r.lastSource {
		return r.lastOutput
	}

	rendered, err := r.renderer.Render(description)
	if err != nil {
		return description
	}
	r.lastSource = description
	r.lastOutput = strings.Trim(rendered, "\n")
	return r.lastOutput
}
