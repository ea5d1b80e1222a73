package loader

import (
	"fmt"
	"strings"

	"github.com/robinvdvleuten/capgains/gains"
)

// ParseError is a problem with one field or row of a transaction file.
type ParseError struct {
	Pos gains.Position
	// Field is the column the error refers to, empty for row level errors.
	Field      string
	Message    string
	Underlying error
}

func (e *ParseError) Error() string {
	location := fmt.Sprintf("%s:%d", e.Pos.Filename, e.Pos.Line)
	if e.Pos.Filename == "" {
		location = fmt.Sprintf("line %d", e.Pos.Line)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", location, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", location, e.Message)
}

func (e *ParseError) GetPosition() gains.Position {
	return e.Pos
}

// GetField returns the column name, empty for row level errors.
func (e *ParseError) GetField() string {
	return e.Field
}

func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// ParseErrors collects every error found in a file.
type ParseErrors struct {
	Errors []error
}

func (e *ParseErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	messages := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		messages[i] = err.Error()
	}
	return fmt.Sprintf("%d errors:\n%s", len(e.Errors), strings.Join(messages, "\n"))
}

func (e *ParseErrors) Unwrap() []error {
	return e.Errors
}
