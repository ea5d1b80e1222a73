package ledger

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input string
		want  Method
	}{
		{"fifo", FIFO},
		{"LIFO", LIFO},
		{" Hifo ", HIFO},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := ParseMethod(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}

	t.Run("Unsupported name", func(t *testing.T) {
		_, err := ParseMethod("average")
		var target *UnsupportedMethodError
		assert.True(t, errors.As(err, &target))
		assert.Equal(t, "average", target.Name)
		assert.Contains(t, err.Error(), "fifo, lifo, hifo")
	})
}

func TestMethod_Text(t *testing.T) {
	var m Method
	assert.NoError(t, m.UnmarshalText([]byte("hifo")))
	assert.Equal(t, HIFO, m)

	text, err := LIFO.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "lifo", string(text))

	_, err = Method(0).MarshalText()
	assert.Error(t, err)
	assert.False(t, Method(0).Valid())
}

func TestOrder(t *testing.T) {
	lots := []*Lot{
		newLot(day(2), d("1"), d("300")),
		newLot(day(0), d("1"), d("100")),
		newLot(day(1), d("1"), d("500")),
		newLot(day(0), d("1"), d("100")),
	}

	build := func() []candidate {
		candidates := make([]candidate, len(lots))
		for i, lot := range lots {
			candidates[i] = candidate{lot: lot, index: i}
		}
		return candidates
	}
	indexes := func(candidates []candidate) []int {
		out := make([]int, len(candidates))
		for i, c := range candidates {
			out[i] = c.index
		}
		return out
	}

	tests := []struct {
		method Method
		want   []int
	}{
		{FIFO, []int{1, 3, 2, 0}},
		{LIFO, []int{0, 2, 3, 1}},
		{HIFO, []int{2, 0, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.method.String(), func(t *testing.T) {
			candidates := build()
			order(candidates, tt.method)
			assert.Equal(t, tt.want, indexes(candidates))
		})
	}
}
