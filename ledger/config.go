package ledger

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultAssets are the assets recognized when no configuration is given.
var DefaultAssets = []string{"BTC", "ETH", "BCH", "LTC", "XRP", "XBT", "XMR", "ZEC", "ADA", "BITB", "XZC"}

// Config describes the ledgers created at the start of every run.
type Config struct {
	// ReportingCurrency is the asset all values are expressed in. Its ledger
	// is seeded with Seed.
	ReportingCurrency string
	Seed              decimal.Decimal
	// Assets are the other recognized assets, all starting empty.
	Assets []string
}

// NewConfig creates a Config with the default asset table: USD seeded with
// 100000 and every DefaultAssets entry at zero.
func NewConfig() *Config {
	return &Config{
		ReportingCurrency: "USD",
		Seed:              decimal.NewFromInt(100000),
		Assets:            append([]string(nil), DefaultAssets...),
	}
}

// NewRegistry builds a fresh registry from the configuration.
func (c *Config) NewRegistry() *Registry {
	r := NewRegistry(NewSeeded(c.ReportingCurrency, c.Seed))
	for _, asset := range c.Assets {
		if asset == c.ReportingCurrency {
			continue
		}
		r.Add(New(asset))
	}
	return r
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ReportingCurrency) == "" {
		return &ConfigError{Field: "reporting_currency", Message: "must not be empty"}
	}
	if c.Seed.IsNegative() {
		return &ConfigError{Field: "seed", Message: "must not be negative"}
	}
	for _, asset := range c.Assets {
		if strings.TrimSpace(asset) == "" {
			return &ConfigError{Field: "assets", Message: "asset symbols must not be empty"}
		}
	}
	return nil
}

// configJSON is the on-disk layout of a Config.
type configJSON struct {
	ReportingCurrency string           `json:"reporting_currency"`
	Seed              *decimal.Decimal `json:"seed"`
	Assets            []string         `json:"assets"`
}

// ConfigFromJSON reads a Config. Missing fields keep their NewConfig defaults.
//
//	{"reporting_currency": "USD", "seed": "100000", "assets": ["BTC", "ETH"]}
func ConfigFromJSON(r io.Reader) (*Config, error) {
	var raw configJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, &ConfigError{Field: "file", Message: "cannot decode", Underlying: err}
	}

	cfg := NewConfig()
	if raw.ReportingCurrency != "" {
		cfg.ReportingCurrency = strings.ToUpper(raw.ReportingCurrency)
	}
	if raw.Seed != nil {
		cfg.Seed = *raw.Seed
	}
	if raw.Assets != nil {
		assets := make([]string, 0, len(raw.Assets))
		seen := make(map[string]bool, len(raw.Assets))
		for _, asset := range raw.Assets {
			asset = strings.ToUpper(strings.TrimSpace(asset))
			if seen[asset] {
				continue
			}
			seen[asset] = true
			assets = append(assets, asset)
		}
		sort.Strings(assets)
		cfg.Assets = assets
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// contextKey is a private type to avoid key collisions in context.
type contextKey struct{}

// WithContext returns a new context with the Config attached.
func (c *Config) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// ConfigFromContext retrieves the Config from context.
// Returns a default Config if not found.
func ConfigFromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok {
		return cfg
	}
	return NewConfig()
}
