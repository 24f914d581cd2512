package provider

import "context"

// ExchangeRate defines the interface for external exchange rate sources.
type ExchangeRate interface {
	// FetchRate returns the unit rate for from→to. Sources that answer with a
	// converted total divide it by amount.
	FetchRate(ctx context.Context, from, to string, amount float64) (float64, error)

	// Name returns the provider's name for logging and identification.
	Name() string
}
