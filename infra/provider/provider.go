// Package provider holds the exchange rate API adapters. Each adapter answers
// with exactly one lookup shape.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/amirasaad/fxconvert/pkg/conversion"
	fxprovider "github.com/amirasaad/fxconvert/pkg/provider"
)

// Names lists the providers New understands.
var Names = []string{
	FrankfurterName,
	FreeCurrencyAPIName,
	OpenExchangeRatesName,
	ExchangeRateAPIName,
	StaticName,
}

// New builds the provider named by cfg.Name.
func New(cfg *config.ExchangeRateProvider, logger *slog.Logger) (fxprovider.ExchangeRate, error) {
	if cfg == nil {
		cfg = &config.ExchangeRateProvider{Name: FrankfurterName}
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case "", FrankfurterName:
		return NewFrankfurter(cfg, logger), nil
	case FreeCurrencyAPIName:
		return orNil(NewFreeCurrencyAPI(cfg, logger))
	case OpenExchangeRatesName:
		return orNil(NewOpenExchangeRates(cfg, logger))
	case ExchangeRateAPIName:
		return orNil(NewExchangeRateAPI(cfg, logger))
	case StaticName:
		return NewStatic(nil), nil
	default:
		return nil, fmt.Errorf("unknown exchange rate provider %q (want one of %s)",
			cfg.Name, strings.Join(Names, ", "))
	}
}

// orNil keeps a failed constructor from yielding a non-nil interface.
func orNil[P fxprovider.ExchangeRate](p P, err error) (fxprovider.ExchangeRate, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

// checkHealth looks up a pair every provider supports.
func checkHealth(ctx context.Context, p fxprovider.ExchangeRate) error {
	_, err := p.LookupRate(ctx, conversion.Request{Base: "USD", Dest: "EUR", Amount: 1})
	return err
}

var (
	_ fxprovider.ExchangeRate = (*Frankfurter)(nil)
	_ fxprovider.ExchangeRate = (*FreeCurrencyAPI)(nil)
	_ fxprovider.ExchangeRate = (*OpenExchangeRates)(nil)
	_ fxprovider.ExchangeRate = (*ExchangeRateAPI)(nil)
	_ fxprovider.ExchangeRate = (*Static)(nil)
	_ fxprovider.Shaped       = (*Frankfurter)(nil)
	_ fxprovider.Shaped       = (*Static)(nil)
)
