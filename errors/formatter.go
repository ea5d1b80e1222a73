// Package errors renders capgains errors for different consumers.
//
//   - TextFormatter: command-line output with the offending CSV line and a
//     caret under the bad field, or the offending transaction as a CSV row
//   - JSONFormatter: structured JSON for the web API
//
// Error types stay in their own packages (loader, gains, ledger, convert).
// This package only inspects them through getter methods.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/capgains/gains"
	"github.com/robinvdvleuten/capgains/loader"
)

// Formatter formats errors for output in different formats.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

type positioned interface {
	error
	GetPosition() gains.Position
}

type transactional interface {
	error
	GetTransaction() gains.Transaction
}

// Flatten expands errors that wrap several errors, such as
// *loader.ParseErrors, into their members.
func Flatten(errs ...error) []error {
	var out []error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if multi, ok := err.(interface{ Unwrap() []error }); ok {
			out = append(out, Flatten(multi.Unwrap()...)...)
			continue
		}
		out = append(out, err)
	}
	return out
}

// TextFormatter formats errors for command-line output.
type TextFormatter struct {
	sources map[string][]byte
}

// TextFormatterOption is an option for configuring TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource registers the content of a loaded file so errors positioned in
// it show the surrounding lines.
func WithSource(filename string, source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.sources[filename] = source
	}
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{sources: make(map[string][]byte)}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error. Aggregates are formatted like FormatAll.
func (tf *TextFormatter) Format(err error) string {
	errs := Flatten(err)
	if len(errs) > 1 {
		return tf.FormatAll(errs)
	}
	if len(errs) == 1 {
		err = errs[0]
	}

	if e, ok := err.(positioned); ok {
		if source, ok := tf.sources[e.GetPosition().Filename]; ok && e.GetPosition().Line > 0 {
			return formatWithSourceContext(e.GetPosition(), e.Error(), source)
		}
	}

	if e, ok := err.(transactional); ok {
		return formatWithTransaction(e.Error(), e.GetTransaction())
	}

	return err.Error()
}

// FormatAll formats multiple errors, separating them with blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	errs = Flatten(errs...)
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(tf.Format(err))
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}
	return buf.String()
}

// formatWithSourceContext shows up to two lines before the error line and
// one after, with a caret under the error column when it is known.
func formatWithSourceContext(pos gains.Position, message string, source []byte) string {
	var buf bytes.Buffer
	buf.WriteString(message)
	buf.WriteString("\n\n")

	lines := strings.Split(strings.TrimRight(string(source), "\n"), "\n")
	start := max(pos.Line-3, 0)
	end := min(pos.Line, len(lines)-1)

	for i := start; i <= end; i++ {
		buf.WriteString("   ")
		buf.WriteString(lines[i])
		buf.WriteByte('\n')

		if i == pos.Line-1 && pos.Column > 0 {
			buf.WriteString("   ")
			buf.WriteString(strings.Repeat(" ", pos.Column-1))
			buf.WriteString("^\n")
		}
	}
	return buf.String()
}

// formatWithTransaction shows the transaction as a canonical CSV row.
func formatWithTransaction(message string, txn gains.Transaction) string {
	var row bytes.Buffer
	if err := loader.Write(&row, []gains.Transaction{txn}); err != nil {
		return message
	}

	var buf bytes.Buffer
	buf.WriteString(message)
	buf.WriteString("\n\n")

	// Skip the header row.
	lines := strings.Split(strings.TrimRight(row.String(), "\n"), "\n")
	for _, line := range lines[1:] {
		buf.WriteString("   ")
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON format.
type ErrorJSON struct {
	Type     string         `json:"type"`
	Message  string         `json:"message"`
	Position *PositionJSON  `json:"position,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

// PositionJSON represents a file position in JSON format.
type PositionJSON struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column,omitempty"`
}

// Format formats a single error as JSON. Aggregates become an array.
func (jf *JSONFormatter) Format(err error) string {
	errs := Flatten(err)
	if len(errs) > 1 {
		return jf.FormatAll(errs)
	}
	if len(errs) == 1 {
		err = errs[0]
	}
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	data, _ := json.MarshalIndent(jf.FormatAllToSlice(errs), "", "  ")
	return string(data)
}

// FormatAllToSlice flattens errs and converts each to ErrorJSON.
func (jf *JSONFormatter) FormatAllToSlice(errs []error) []ErrorJSON {
	errs = Flatten(errs...)
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	return result
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
		Details: make(map[string]any),
	}

	if e, ok := err.(positioned); ok {
		if pos := e.GetPosition(); pos.Line > 0 {
			errJSON.Position = &PositionJSON{
				Filename: pos.Filename,
				Line:     pos.Line,
				Column:   pos.Column,
			}
		}
	}

	if e, ok := err.(transactional); ok {
		errJSON.Details["transaction_id"] = e.GetTransaction().ID
	}
	if e, ok := err.(interface{ GetAsset() string }); ok {
		errJSON.Details["asset"] = e.GetAsset()
	}
	if e, ok := err.(interface{ GetField() string }); ok && e.GetField() != "" {
		errJSON.Details["field"] = e.GetField()
	}

	return errJSON
}
