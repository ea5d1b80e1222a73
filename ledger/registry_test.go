package ledger

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestRegistry(t *testing.T) {
	t.Run("Get returns registered ledger", func(t *testing.T) {
		btc := New("BTC")
		r := NewRegistry(btc, New("ETH"))

		got, err := r.Get("BTC")
		assert.NoError(t, err)
		assert.True(t, got == btc)
		assert.Equal(t, []string{"BTC", "ETH"}, r.Assets())
		assert.Equal(t, 2, r.Len())
	})

	t.Run("Unknown asset is a lookup error", func(t *testing.T) {
		r := NewRegistry(New("BTC"))

		_, err := r.Get("DOGE")
		var target *AssetNotFoundError
		assert.True(t, errors.As(err, &target))
		assert.Equal(t, "DOGE", target.GetAsset())
	})

	t.Run("Ledgers are sorted by asset", func(t *testing.T) {
		r := NewRegistry(New("ZEC"), New("ADA"), New("BTC"))

		var assets []string
		for _, l := range r.Ledgers() {
			assets = append(assets, l.Asset())
		}
		assert.Equal(t, []string{"ADA", "BTC", "ZEC"}, assets)
	})
}

func TestConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg := NewConfig()
		r := cfg.NewRegistry()

		assert.Equal(t, len(DefaultAssets)+1, r.Len())

		usd, err := r.Get("USD")
		assert.NoError(t, err)
		assertDecimal(t, "100000", usd.Balance())
		assert.Equal(t, 1, len(usd.Lots()))

		btc, err := r.Get("BTC")
		assert.NoError(t, err)
		assertDecimal(t, "0", btc.Balance())
	})

	t.Run("Every registry is fresh", func(t *testing.T) {
		cfg := NewConfig()
		first := cfg.NewRegistry()
		btc, _ := first.Get("BTC")
		btc.Deposit(day(0), d("1"), d("1"))

		second := cfg.NewRegistry()
		fresh, _ := second.Get("BTC")
		assertDecimal(t, "0", fresh.Balance())
	})

	t.Run("From JSON", func(t *testing.T) {
		cfg, err := ConfigFromJSON(strings.NewReader(`{"reporting_currency": "eur", "seed": "5000.50", "assets": ["eth", "BTC", "ETH"]}`))
		assert.NoError(t, err)
		assert.Equal(t, "EUR", cfg.ReportingCurrency)
		assertDecimal(t, "5000.5", cfg.Seed)
		assert.Equal(t, []string{"BTC", "ETH"}, cfg.Assets)

		eur, err := cfg.NewRegistry().Get("EUR")
		assert.NoError(t, err)
		assertDecimal(t, "5000.5", eur.Balance())
	})

	t.Run("Missing fields keep defaults", func(t *testing.T) {
		cfg, err := ConfigFromJSON(strings.NewReader(`{"assets": ["DOGE"]}`))
		assert.NoError(t, err)
		assert.Equal(t, "USD", cfg.ReportingCurrency)
		assertDecimal(t, "100000", cfg.Seed)
		assert.Equal(t, []string{"DOGE"}, cfg.Assets)
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		_, err := ConfigFromJSON(strings.NewReader(`{"seed": "abc"}`))
		var target *ConfigError
		assert.True(t, errors.As(err, &target))

		_, err = ConfigFromJSON(strings.NewReader(`{"unknown": true}`))
		assert.Error(t, err)
	})

	t.Run("Negative seed", func(t *testing.T) {
		_, err := ConfigFromJSON(strings.NewReader(`{"seed": "-1"}`))
		var target *ConfigError
		assert.True(t, errors.As(err, &target))
		assert.Equal(t, "seed", target.Field)
	})

	t.Run("Context round trip", func(t *testing.T) {
		cfg := &Config{ReportingCurrency: "EUR"}
		ctx := cfg.WithContext(context.Background())
		assert.True(t, ConfigFromContext(ctx) == cfg)
		assert.Equal(t, "USD", ConfigFromContext(context.Background()).ReportingCurrency)
	})
}
