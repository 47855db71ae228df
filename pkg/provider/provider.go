package provider

import (
	"context"

	"github.com/amirasaad/fxconvert/pkg/conversion"
)

// ExchangeRate defines the interface for external exchange rate providers.
type ExchangeRate interface {
	conversion.RateSource

	// Name returns the provider's name for logging and identification.
	Name() string

	// CheckHealth returns nil when the provider answers a trivial lookup.
	CheckHealth(ctx context.Context) error
}
