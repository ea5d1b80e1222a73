package ledger

import (
	"sort"
)

// Registry maps asset symbols to their ledgers for the duration of a run.
type Registry struct {
	ledgers map[string]*Ledger
}

// NewRegistry creates a registry holding the given ledgers.
func NewRegistry(ledgers ...*Ledger) *Registry {
	r := &Registry{
		ledgers: make(map[string]*Ledger, len(ledgers)),
	}
	for _, l := range ledgers {
		r.Add(l)
	}
	return r
}

// Add registers a ledger, replacing any ledger for the same asset.
func (r *Registry) Add(l *Ledger) {
	r.ledgers[l.Asset()] = l
}

// Get returns the ledger for asset.
func (r *Registry) Get(asset string) (*Ledger, error) {
	l, ok := r.ledgers[asset]
	if !ok {
		return nil, &AssetNotFoundError{Asset: asset}
	}
	return l, nil
}

// Assets returns the registered asset symbols in sorted order.
func (r *Registry) Assets() []string {
	assets := make([]string, 0, len(r.ledgers))
	for asset := range r.ledgers {
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	return assets
}

// Ledgers returns all ledgers sorted by asset symbol.
func (r *Registry) Ledgers() []*Ledger {
	assets := r.Assets()
	ledgers := make([]*Ledger, len(assets))
	for i, asset := range assets {
		ledgers[i] = r.ledgers[asset]
	}
	return ledgers
}

// Len returns the number of registered ledgers
func (r *Registry) Len() int {
	return len(r.ledgers)
}
