package report

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/robinvdvleuten/capgains/ledger"
)

// Position is the end-of-run state of one ledger.
type Position struct {
	Asset         string `json:"asset"`
	Balance       string `json:"balance"`
	OpenLots      int    `json:"open_lots"`
	RemainingCost string `json:"remaining_cost"`
}

// Positions lists every ledger of the registry sorted by asset.
func Positions(registry *ledger.Registry) []Position {
	ledgers := registry.Ledgers()
	positions := make([]Position, 0, len(ledgers))
	for _, l := range ledgers {
		positions = append(positions, Position{
			Asset:         l.Asset(),
			Balance:       l.Balance().String(),
			OpenLots:      l.OpenLots(),
			RemainingCost: l.RemainingCost().StringFixed(2),
		})
	}
	return positions
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// RenderPositions renders the registry as a bordered table. currency labels
// the cost column.
func RenderPositions(registry *ledger.Registry, currency string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Asset", "Balance", "Open lots", fmt.Sprintf("Cost basis (%s)", currency)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return cellStyle
			}
			return cellStyle.Align(lipgloss.Right)
		})

	for _, p := range Positions(registry) {
		t.Row(p.Asset, p.Balance, fmt.Sprintf("%d", p.OpenLots), p.RemainingCost)
	}
	return t.String()
}
