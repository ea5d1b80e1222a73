package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/capgains/errors"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and source context.
type ErrorRenderer struct {
	formatter *errors.TextFormatter
}

// NewErrorRenderer creates a renderer. source, when not nil, is the content of
// filename and is shown around positioned errors.
func NewErrorRenderer(filename string, source []byte) *ErrorRenderer {
	var opts []errors.TextFormatterOption
	if source != nil {
		opts = append(opts, errors.WithSource(filename, source))
	}
	return &ErrorRenderer{formatter: errors.NewTextFormatter(opts...)}
}

// Render formats a single error. Aggregates render every member.
func (r *ErrorRenderer) Render(err error) string {
	return r.RenderAll([]error{err})
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	errs = errors.Flatten(errs...)

	blocks := make([]string, len(errs))
	for i, err := range errs {
		blocks[i] = style(r.formatter.Format(err))
	}
	return strings.Join(blocks, "\n\n")
}

// Count returns the number of errors Render would show.
func (r *ErrorRenderer) Count(err error) int {
	return len(errors.Flatten(err))
}

// style colors the message line, the context lines and the caret of a
// formatted error.
func style(formatted string) string {
	lines := strings.Split(strings.TrimRight(formatted, "\n"), "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case i == 0:
			lines[i] = errorStyle.Render(line)
		case trimmed == "^":
			lines[i] = strings.TrimSuffix(line, "^") + errCaretStyle.Render("^")
		case strings.HasPrefix(line, "   "):
			lines[i] = "   " + errContextStyle.Render(line[3:])
		}
	}
	return strings.Join(lines, "\n")
}

// reportErrors renders err to w followed by a summary line.
func reportErrors(w io.Writer, renderer *ErrorRenderer, err error, summary string) {
	_, _ = io.WriteString(w, renderer.Render(err))
	_, _ = io.WriteString(w, "\n\n")
	printError(w, summary)
}
