package format

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders Markdown for terminal display.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}

	// glamour pads with newlines; keep exactly one.
	return strings.TrimRight(rendered, "\n") + "\n", nil
}
