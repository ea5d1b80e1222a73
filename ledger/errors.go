package ledger

import (
	"fmt"
	"strings"
)

// Error types for ledger configuration, lookups and invariants

// UnsupportedMethodError is returned when a booking method name is not one of
// fifo, lifo or hifo.
type UnsupportedMethodError struct {
	Name string
}

func (e *UnsupportedMethodError) Error() string {
	names := make([]string, len(Methods))
	for i, m := range Methods {
		names[i] = m.String()
	}
	return fmt.Sprintf("unsupported booking method %q, expected one of %s", e.Name, strings.Join(names, ", "))
}

// AssetNotFoundError is returned when no ledger is registered for an asset.
type AssetNotFoundError struct {
	Asset string
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("no ledger configured for asset %q", e.Asset)
}

func (e *AssetNotFoundError) GetAsset() string {
	return e.Asset
}

// ConfigError is returned when an asset configuration cannot be used.
type ConfigError struct {
	Field      string
	Message    string
	Underlying error
}

func (e *ConfigError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("invalid config %s: %s: %v", e.Field, e.Message, e.Underlying)
	}
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// InvariantError is the panic value used when lot accounting detects an
// impossible state. It is never returned as an error.
type InvariantError struct {
	Asset   string
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("ledger %s: invariant violated: %s", e.Asset, e.Message)
}
