package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/amirasaad/fxconvert/pkg/conversion"
)

const maxErrorBody = 256

// restClient is the HTTP plumbing shared by the provider adapters: one resty
// client per provider, paced by a token bucket.
type restClient struct {
	name    string
	rest    *resty.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func newRestClient(
	name, defaultURL string,
	cfg *config.ExchangeRateProvider,
	logger *slog.Logger,
) *restClient {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = &config.ExchangeRateProvider{}
	}
	baseURL := cfg.ApiUrl
	if baseURL == "" {
		baseURL = defaultURL
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &restClient{
		name: name,
		rest: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.With("provider", name),
	}
}

// getJSON issues a GET and decodes the JSON body into out. Every failure is a
// ProviderError wrapping conversion.ErrNetwork.
func (c *restClient) getJSON(
	ctx context.Context,
	path string,
	query map[string]string,
	out any,
) error {
	status, body, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return c.fail(fmt.Errorf("API returned status %d: %s", status, truncate(string(body))))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.fail(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// getJSONAnyStatus decodes the body whatever the status, for APIs that report
// errors in a JSON envelope.
func (c *restClient) getJSONAnyStatus(
	ctx context.Context,
	path string,
	query map[string]string,
	out any,
) (int, error) {
	status, body, err := c.get(ctx, path, query)
	if err != nil {
		return 0, err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return status, c.fail(fmt.Errorf("status %d, failed to decode response: %w", status, err))
	}
	return status, nil
}

func (c *restClient) get(
	ctx context.Context,
	path string,
	query map[string]string,
) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, c.fail(fmt.Errorf("rate limiter: %w", err))
	}

	// Paths and queries may carry the API key and are not logged.
	c.logger.Debug("Fetching exchange rates")
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return 0, nil, c.fail(fmt.Errorf("failed to make request: %w", stripURL(err)))
	}
	c.logger.Debug("Exchange rate response", "status", resp.StatusCode(), "duration", resp.Time())
	return resp.StatusCode(), resp.Body(), nil
}

func (c *restClient) fail(err error) error {
	return &conversion.ProviderError{
		Provider: c.name,
		Err:      fmt.Errorf("%w: %w", conversion.ErrNetwork, err),
	}
}

func (c *restClient) notFound(format string, args ...any) error {
	return &conversion.ProviderError{
		Provider: c.name,
		Err:      fmt.Errorf("%w: %s", conversion.ErrRateNotFound, fmt.Sprintf(format, args...)),
	}
}

// stripURL drops the request URL, which can carry the API key, from transport
// errors.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}

func truncate(s string) string {
	if len(s) <= maxErrorBody {
		return s
	}
	return s[:maxErrorBody] + "..."
}
