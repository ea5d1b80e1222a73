package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/mattn/go-runewidth"
	"github.com/robinvdvleuten/capgains/gains"
	"github.com/robinvdvleuten/capgains/output"
	"github.com/shopspring/decimal"
)

// Totals sums the events of one holding period.
type Totals struct {
	Count     int             `json:"count"`
	Proceeds  decimal.Decimal `json:"proceeds"`
	CostBasis decimal.Decimal `json:"cost_basis"`
	Gain      decimal.Decimal `json:"gain"`
}

func (t *Totals) add(e gains.Event) {
	t.Count++
	t.Proceeds = t.Proceeds.Add(e.Proceeds)
	t.CostBasis = t.CostBasis.Add(e.CostBasis)
	t.Gain = t.Gain.Add(e.Gain)
}

// Summary totals a run's events by holding period.
type Summary struct {
	Currency  string `json:"currency"`
	Short     Totals `json:"short"`
	Long      Totals `json:"long"`
	Unmatched int    `json:"unmatched"`
}

// Total combines both holding periods.
func (s *Summary) Total() Totals {
	return Totals{
		Count:     s.Short.Count + s.Long.Count,
		Proceeds:  s.Short.Proceeds.Add(s.Long.Proceeds),
		CostBasis: s.Short.CostBasis.Add(s.Long.CostBasis),
		Gain:      s.Short.Gain.Add(s.Long.Gain),
	}
}

// Summarize totals events per holding period. currency is the reporting
// currency used when rendering amounts.
func Summarize(events []gains.Event, unmatched []gains.Unmatched, currency string) *Summary {
	s := &Summary{Currency: currency, Unmatched: len(unmatched)}
	for _, e := range events {
		if e.Term() == gains.LongTerm {
			s.Long.add(e)
		} else {
			s.Short.add(e)
		}
	}
	return s
}

// Render writes the summary as an aligned text table.
//
//	           Disposals    Proceeds  Cost basis       Gain
//	Short-term         1   $3,000.00   $2,250.00    $750.00
//	Long-term          0       $0.00       $0.00      $0.00
//	Total              1   $3,000.00   $2,250.00    $750.00
func (s *Summary) Render(w io.Writer) error {
	return s.RenderStyled(w, nil)
}

// RenderStyled is Render with a bold header and gains colored by sign. A nil
// styles renders plain text.
func (s *Summary) RenderStyled(w io.Writer, styles *output.Styles) error {
	totals := []Totals{s.Short, s.Long, s.Total()}
	rows := [][]string{
		{"", "Disposals", "Proceeds", "Cost basis", "Gain"},
		s.row("Short-term", totals[0]),
		s.row("Long-term", totals[1]),
		s.row("Total", totals[2]),
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	// Cells are padded before styling; escape sequences have no width.
	for r, row := range rows {
		cells := make([]string, len(row))
		cells[0] = runewidth.FillRight(row[0], widths[0])
		for i := 1; i < len(row); i++ {
			cells[i] = runewidth.FillLeft(row[i], widths[i])
		}

		if styles != nil {
			if r == 0 {
				for i := range cells {
					cells[i] = styles.Keyword(cells[i])
				}
			} else {
				last := len(cells) - 1
				cells[last] = styles.Gain(cells[last], totals[r-1].Gain)
			}
		}

		if _, err := fmt.Fprintln(w, strings.Join(cells, "  ")); err != nil {
			return err
		}
	}

	if s.Unmatched > 0 {
		note := fmt.Sprintf("%d withdrawal(s) exceeded the available lots", s.Unmatched)
		if styles != nil {
			note = styles.Warning(note)
		}
		if _, err := fmt.Fprintf(w, "\n%s\n", note); err != nil {
			return err
		}
	}
	return nil
}

func (s *Summary) row(label string, t Totals) []string {
	return []string{
		label,
		fmt.Sprintf("%d", t.Count),
		FormatMoney(t.Proceeds, s.Currency),
		FormatMoney(t.CostBasis, s.Currency),
		FormatMoney(t.Gain, s.Currency),
	}
}

// FormatMoney formats an amount in a currency known to go-money, or as a
// plain two-decimal number followed by the code for anything else.
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	factor := decimal.New(1, int32(cur.Fraction))
	return money.New(amount.Mul(factor).Round(0).IntPart(), currency).Display()
}
