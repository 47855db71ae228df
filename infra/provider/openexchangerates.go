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
	OpenExchangeRatesName       = "openexchangerates"
	defaultOpenExchangeRatesURL = "https://openexchangerates.org/api"
)

type openExchangeRatesResponse struct {
	Base      string             `json:"base"`
	Timestamp int64              `json:"timestamp"`
	Rates     map[string]float64 `json:"rates"`
}

// OpenExchangeRates quotes both currencies against the account's reference
// currency (USD on the free plan).
type OpenExchangeRates struct {
	client *restClient
	appID  string
}

func NewOpenExchangeRates(cfg *config.ExchangeRateProvider, logger *slog.Logger) (*OpenExchangeRates, error) {
	if cfg == nil || cfg.ApiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &OpenExchangeRates{
		client: newRestClient(OpenExchangeRatesName, defaultOpenExchangeRatesURL, cfg, logger),
		appID:  cfg.ApiKey,
	}, nil
}

func (p *OpenExchangeRates) Name() string { return OpenExchangeRatesName }

func (p *OpenExchangeRates) Shape() conversion.Shape { return conversion.CrossRate }

func (p *OpenExchangeRates) LookupRate(
	ctx context.Context,
	req conversion.Request,
) (*conversion.LookupResult, error) {
	var body openExchangeRatesResponse
	err := p.client.getJSON(ctx, "/latest.json", map[string]string{
		"app_id":  p.appID,
		"symbols": req.Base + "," + req.Dest,
	}, &body)
	if err != nil {
		return nil, err
	}
	if body.Rates == nil {
		return nil, p.client.fail(errors.New("response has no rates"))
	}

	quotedAt := time.Now().UTC()
	if body.Timestamp > 0 {
		quotedAt = time.Unix(body.Timestamp, 0).UTC()
	}
	return &conversion.LookupResult{
		Shape:    conversion.CrossRate,
		Base:     body.Base,
		Rates:    body.Rates,
		Provider: OpenExchangeRatesName,
		QuotedAt: quotedAt,
	}, nil
}

func (p *OpenExchangeRates) CheckHealth(ctx context.Context) error {
	return checkHealth(ctx, p)
}
