package webapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infra_provider "github.com/amirasaad/fxconvert/infra/provider"
	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/amirasaad/fxconvert/pkg/conversion"
	"github.com/amirasaad/fxconvert/pkg/provider"
	"github.com/amirasaad/fxconvert/webapi/common"
)

func newTestApp(t *testing.T, limit int) *fiber.App {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	static := infra_provider.NewStatic(nil)
	return SetupApp(Options{
		Engine:    conversion.NewEngine(static, logger),
		Providers: []provider.ExchangeRate{static},
		RateLimit: &config.RateLimit{MaxRequests: limit, Window: time.Minute},
		Logger:    logger,
		AccessLog: io.Discard,
	})
}

func TestSetupApp_Root(t *testing.T) {
	app := newTestApp(t, 10)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestSetupApp_ConvertEndToEnd(t *testing.T) {
	app := newTestApp(t, 10)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/convert?from=INR&to=USD&amount=100", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Data struct {
			Rate      string `json:"rate"`
			Converted string `json:"converted"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "0.0120", out.Data.Rate)
	assert.Equal(t, "1.20", out.Data.Converted)
}

func TestSetupApp_UnknownCurrency(t *testing.T) {
	app := newTestApp(t, 10)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/convert?from=CAD&to=XXX", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSetupApp_NotFoundRoute(t *testing.T) {
	app := newTestApp(t, 10)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/nope", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get(fiber.HeaderContentType))
	var pd common.ProblemDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	assert.Equal(t, fiber.StatusNotFound, pd.Status)
}

func TestSetupApp_RateLimit(t *testing.T) {
	app := newTestApp(t, 2)
	for i := range 3 {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		_ = resp.Body.Close()

		if i < 2 {
			assert.Equal(t, fiber.StatusOK, resp.StatusCode, "request %d", i+1)
		} else {
			assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode, "request %d", i+1)
		}
	}

	// Another client has its own budget.
	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.1")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
