package ui

import "github.com/charmbracelet/glamour"

// markdownRenderer renders assistant answers for the terminal.
type markdownRenderer interface {
	Render(in string) (string, error)
}

// newMarkdownRenderer returns a glamour renderer wrapping at width, or nil
// when one cannot be built.
func newMarkdownRenderer(width int) markdownRenderer {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// renderMarkdown returns the original content if rendering fails or no
// renderer is available.
func renderMarkdown(r markdownRenderer, content string) string {
	if r == nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
