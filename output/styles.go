// Package output provides styling helpers for terminal output.
package output

import (
	"io"

	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
)

// Styles renders styled strings for the writer's terminal profile. Writers
// that are not terminals get plain text.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates a new Styles instance for the given writer.
func NewStyles(w io.Writer) *Styles {
	return &Styles{
		output: termenv.NewOutput(w),
	}
}

func (s *Styles) fg(text, color string) termenv.Style {
	return s.output.String(text).Foreground(s.output.Color(color))
}

// Warning returns yellow bold text.
func (s *Styles) Warning(text string) string {
	return s.fg(text, "3").Bold().String()
}

// FilePath returns cyan text.
func (s *Styles) FilePath(text string) string {
	return s.fg(text, "6").String()
}

// Asset returns a yellow asset symbol.
func (s *Styles) Asset(text string) string {
	return s.fg(text, "3").String()
}

// Amount returns a magenta quantity or value.
func (s *Styles) Amount(text string) string {
	return s.fg(text, "5").String()
}

// Gain colors a formatted gain by the sign of value: green for gains, red for
// losses and unstyled for zero.
func (s *Styles) Gain(text string, value decimal.Decimal) string {
	switch value.Sign() {
	case 1:
		return s.fg(text, "2").String()
	case -1:
		return s.fg(text, "1").String()
	default:
		return text
	}
}

// Keyword returns bold text.
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).Bold().String()
}

// Dim returns faint text for secondary information.
func (s *Styles) Dim(text string) string {
	return s.output.String(text).Faint().String()
}

// Timing returns red text for slow operations and dimmed text otherwise.
func (s *Styles) Timing(text string, isSlowOperation bool) string {
	if isSlowOperation {
		return s.fg(text, "1").String()
	}
	return s.Dim(text)
}

// Output returns the underlying termenv Output.
func (s *Styles) Output() *termenv.Output {
	return s.output
}
