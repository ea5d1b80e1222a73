package gains

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestClassify(t *testing.T) {
	acquired := time.Date(2017, time.June, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		disposed time.Time
		want     Term
	}{
		{"Same day", acquired.Add(time.Hour), ShortTerm},
		{"364 days", acquired.AddDate(0, 0, 364), ShortTerm},
		{"Just under a year", acquired.Add(HoldingPeriod - time.Nanosecond), ShortTerm},
		{"365 days", acquired.AddDate(0, 0, 365), LongTerm},
		{"Two years", acquired.AddDate(2, 0, 0), LongTerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(acquired, tt.disposed))
		})
	}
}

func TestClassify_LeapYear(t *testing.T) {
	// 2020 has 366 days, so the same calendar date a year later is already
	// long-term one day early.
	acquired := time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, LongTerm, Classify(acquired, time.Date(2021, time.January, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, ShortTerm, Classify(acquired, time.Date(2021, time.January, 13, 0, 0, 0, 0, time.UTC)))
}

func TestPartition(t *testing.T) {
	events := []Event{
		{TransactionID: "a", AcquiredAt: day(0), DisposedAt: day(10)},
		{TransactionID: "b", AcquiredAt: day(0), DisposedAt: day(365)},
		{TransactionID: "c", AcquiredAt: day(1), DisposedAt: day(365)},
		{TransactionID: "d", AcquiredAt: day(0), DisposedAt: day(800)},
	}

	long, short := Partition(events)

	ids := func(events []Event) []string {
		out := []string{}
		for _, e := range events {
			out = append(out, e.TransactionID)
		}
		return out
	}
	assert.Equal(t, []string{"b", "d"}, ids(long))
	assert.Equal(t, []string{"a", "c"}, ids(short))
	assert.Equal(t, "long", events[1].Term().String())
	assert.Equal(t, "short", events[0].Term().String())
}

func TestTerm_Text(t *testing.T) {
	text, err := LongTerm.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "long", string(text))

	var term Term
	assert.NoError(t, term.UnmarshalText([]byte("long")))
	assert.Equal(t, LongTerm, term)
	assert.NoError(t, term.UnmarshalText([]byte("short")))
	assert.Equal(t, ShortTerm, term)
	assert.Error(t, term.UnmarshalText([]byte("medium")))
}
