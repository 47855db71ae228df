package provider

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/amirasaad/fxconvert/pkg/conversion"
)

const (
	FrankfurterName       = "frankfurter"
	defaultFrankfurterURL = "https://api.frankfurter.app"
)

type frankfurterResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// Frankfurter answers with rates already multiplied by the requested amount.
type Frankfurter struct {
	client *restClient
}

// NewFrankfurter creates an adapter for the keyless frankfurter.app API.
func NewFrankfurter(cfg *config.ExchangeRateProvider, logger *slog.Logger) *Frankfurter {
	return &Frankfurter{
		client: newRestClient(FrankfurterName, defaultFrankfurterURL, cfg, logger),
	}
}

func (p *Frankfurter) Name() string { return FrankfurterName }

func (p *Frankfurter) Shape() conversion.Shape { return conversion.ScaledRate }

func (p *Frankfurter) LookupRate(
	ctx context.Context,
	req conversion.Request,
) (*conversion.LookupResult, error) {
	var body frankfurterResponse
	err := p.client.getJSON(ctx, "/latest", map[string]string{
		"from":   req.Base,
		"to":     req.Dest,
		"amount": strconv.FormatFloat(req.Amount, 'f', -1, 64),
	}, &body)
	if err != nil {
		return nil, err
	}
	if body.Rates == nil {
		return nil, p.client.fail(errors.New("response has no rates"))
	}

	quotedAt := time.Now().UTC()
	if d, err := time.Parse(time.DateOnly, body.Date); err == nil {
		quotedAt = d
	}
	return &conversion.LookupResult{
		Shape:    conversion.ScaledRate,
		Base:     body.Base,
		Amount:   body.Amount,
		Rates:    body.Rates,
		Provider: FrankfurterName,
		QuotedAt: quotedAt,
	}, nil
}

func (p *Frankfurter) CheckHealth(ctx context.Context) error {
	return checkHealth(ctx, p)
}
