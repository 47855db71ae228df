package provider

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/amirasaad/fxconvert/pkg/conversion"
)

const (
	FreeCurrencyAPIName       = "freecurrencyapi"
	defaultFreeCurrencyAPIURL = "https://api.freecurrencyapi.com"
)

// ErrMissingAPIKey is returned when a provider that needs a key is configured
// without one.
var ErrMissingAPIKey = errors.New("exchange rate provider requires an API key")

type freeCurrencyResponse struct {
	Data map[string]float64 `json:"data"`
}

// FreeCurrencyAPI quotes every currency against the requested base.
type FreeCurrencyAPI struct {
	client *restClient
	apiKey string
}

// NewFreeCurrencyAPI creates a freecurrencyapi.com adapter.
func NewFreeCurrencyAPI(cfg *config.ExchangeRateProvider, logger *slog.Logger) (*FreeCurrencyAPI, error) {
	if cfg == nil || cfg.ApiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &FreeCurrencyAPI{
		client: newRestClient(FreeCurrencyAPIName, defaultFreeCurrencyAPIURL, cfg, logger),
		apiKey: cfg.ApiKey,
	}, nil
}

func (p *FreeCurrencyAPI) Name() string { return FreeCurrencyAPIName }

func (p *FreeCurrencyAPI) Shape() conversion.Shape { return conversion.DirectRate }

func (p *FreeCurrencyAPI) LookupRate(
	ctx context.Context,
	req conversion.Request,
) (*conversion.LookupResult, error) {
	var body freeCurrencyResponse
	err := p.client.getJSON(ctx, "/v1/latest", map[string]string{
		"apikey":        p.apiKey,
		"base_currency": req.Base,
	}, &body)
	if err != nil {
		return nil, err
	}
	if body.Data == nil {
		return nil, p.client.fail(errors.New("response has no data"))
	}
	return &conversion.LookupResult{
		Shape:    conversion.DirectRate,
		Base:     req.Base,
		Rates:    body.Data,
		Provider: FreeCurrencyAPIName,
		QuotedAt: time.Now().UTC(),
	}, nil
}

func (p *FreeCurrencyAPI) CheckHealth(ctx context.Context) error {
	return checkHealth(ctx, p)
}
