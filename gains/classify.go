package gains

import (
	"fmt"
	"time"
)

// HoldingPeriod is the minimum holding time for a long-term gain.
const HoldingPeriod = 365 * 24 * time.Hour

// Term is the holding-period classification of a disposal.
type Term int

const (
	ShortTerm Term = iota
	LongTerm
)

func (t Term) String() string {
	if t == LongTerm {
		return "long"
	}
	return "short"
}

// MarshalText implements encoding.TextMarshaler.
func (t Term) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Term) UnmarshalText(text []byte) error {
	switch string(text) {
	case "short":
		*t = ShortTerm
	case "long":
		*t = LongTerm
	default:
		return fmt.Errorf("unknown term %q", text)
	}
	return nil
}

// Classify returns LongTerm when the asset was held for at least
// HoldingPeriod.
func Classify(acquired, disposed time.Time) Term {
	if disposed.Sub(acquired) >= HoldingPeriod {
		return LongTerm
	}
	return ShortTerm
}

// Term classifies the event by its holding period.
func (e Event) Term() Term {
	return Classify(e.AcquiredAt, e.DisposedAt)
}

// Partition splits events into long-term and short-term, keeping their order.
func Partition(events []Event) (long, short []Event) {
	for _, e := range events {
		if e.Term() == LongTerm {
			long = append(long, e)
		} else {
			short = append(short, e)
		}
	}
	return long, short
}
