package convert

import (
	"fmt"
	"strings"

	"github.com/robinvdvleuten/capgains/gains"
	"github.com/robinvdvleuten/capgains/loader"
)

// UnknownExchangeError is returned by Lookup for an unsupported exchange.
type UnknownExchangeError struct {
	Name string
}

func (e *UnknownExchangeError) Error() string {
	return fmt.Sprintf("unknown exchange %q, expected one of %s", e.Name, strings.Join(Names(), ", "))
}

// UnknownPairError is returned when an export row trades a pair missing from
// the converter's pair table.
type UnknownPairError struct {
	Exchange string
	Pair     string
	Filename string
	Line     int
}

func (e *UnknownPairError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s:%d: unknown %s pair %q", e.Filename, e.Line, e.Exchange, e.Pair)
	}
	return fmt.Sprintf("line %d: unknown %s pair %q", e.Line, e.Exchange, e.Pair)
}

func (e *UnknownPairError) GetPosition() gains.Position {
	return gains.Position{Filename: e.Filename, Line: e.Line}
}

// WithFilename sets filename on every converter error in err that has no
// file yet, so the errors can be shown next to the export's source lines.
func WithFilename(err error, filename string) error {
	switch e := err.(type) {
	case *loader.ParseErrors:
		for _, member := range e.Errors {
			WithFilename(member, filename)
		}
	case *loader.ParseError:
		if e.Pos.Filename == "" {
			e.Pos.Filename = filename
		}
	case *UnknownPairError:
		if e.Filename == "" {
			e.Filename = filename
		}
	}
	return err
}
