package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/amirasaad/fxconvert/pkg/conversion"
)

const (
	ExchangeRateAPIName       = "exchangerate-api"
	defaultExchangeRateAPIURL = "https://v6.exchangerate-api.com/v6"
)

// exchangeRateAPIResponse is the v6 "latest" payload.
type exchangeRateAPIResponse struct {
	Result             string             `json:"result"`
	ErrorType          string             `json:"error-type"`
	BaseCode           string             `json:"base_code"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	ConversionRates    map[string]float64 `json:"conversion_rates"`
}

// ExchangeRateAPI quotes every currency against the requested base. The API key
// is part of the path.
type ExchangeRateAPI struct {
	client *restClient
	apiKey string
}

func NewExchangeRateAPI(cfg *config.ExchangeRateProvider, logger *slog.Logger) (*ExchangeRateAPI, error) {
	if cfg == nil || cfg.ApiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &ExchangeRateAPI{
		client: newRestClient(ExchangeRateAPIName, defaultExchangeRateAPIURL, cfg, logger),
		apiKey: cfg.ApiKey,
	}, nil
}

func (p *ExchangeRateAPI) Name() string { return ExchangeRateAPIName }

func (p *ExchangeRateAPI) Shape() conversion.Shape { return conversion.DirectRate }

func (p *ExchangeRateAPI) LookupRate(
	ctx context.Context,
	req conversion.Request,
) (*conversion.LookupResult, error) {
	var body exchangeRateAPIResponse
	path := fmt.Sprintf("/%s/latest/%s", url.PathEscape(p.apiKey), url.PathEscape(req.Base))
	status, err := p.client.getJSONAnyStatus(ctx, path, nil, &body)
	if err != nil {
		return nil, err
	}

	switch {
	case body.Result == "success" && status < 300:
	case body.ErrorType == "unsupported-code":
		return nil, p.client.notFound("unsupported currency %s", req.Base)
	default:
		return nil, p.client.fail(fmt.Errorf("API returned status %d: %s", status, body.ErrorType))
	}

	quotedAt := time.Now().UTC()
	if body.TimeLastUpdateUnix > 0 {
		quotedAt = time.Unix(body.TimeLastUpdateUnix, 0).UTC()
	}
	return &conversion.LookupResult{
		Shape:    conversion.DirectRate,
		Base:     body.BaseCode,
		Rates:    body.ConversionRates,
		Provider: ExchangeRateAPIName,
		QuotedAt: quotedAt,
	}, nil
}

func (p *ExchangeRateAPI) CheckHealth(ctx context.Context) error {
	return checkHealth(ctx, p)
}
