// Package convert exposes the conversion engine over HTTP.
package convert

import (
	"context"
	"log/slog"
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/amirasaad/fxconvert/pkg/conversion"
	"github.com/amirasaad/fxconvert/pkg/provider"
	"github.com/amirasaad/fxconvert/webapi/common"
)

// Converter runs raw input through validation, lookup and conversion.
type Converter interface {
	Convert(ctx context.Context, rawBase, rawDest, rawAmount string) (conversion.Result, error)
}

// Routes registers the conversion and provider health endpoints.
func Routes(
	app fiber.Router,
	engine Converter,
	providers []provider.ExchangeRate,
	logger *slog.Logger,
) {
	if logger == nil {
		logger = slog.Default()
	}
	api := app.Group("/api")
	api.Get("/convert", ConvertQuery(engine, logger))
	api.Post("/convert", ConvertBody(engine, logger))
	api.Get("/providers/health", ProvidersHealth(providers))
}

// ConvertQuery handles GET /api/convert?from=CAD&to=USD&amount=10. The amount
// defaults to 1.
func ConvertQuery(engine Converter, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return convert(c, engine, logger, c.Query("from"), c.Query("to"), c.Query("amount", "1"))
	}
}

// ConvertBody handles POST /api/convert.
func ConvertBody(engine Converter, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[ConvertInput](c)
		if input == nil {
			return err // error response already written
		}
		return convert(c, engine, logger, input.From, input.To, input.rawAmount())
	}
}

func convert(c *fiber.Ctx, engine Converter, logger *slog.Logger, from, to, amount string) error {
	res, err := engine.Convert(c.UserContext(), from, to, amount)
	if err != nil {
		logger.Info("Conversion request failed",
			"request_id", c.Locals("requestid"),
			"from", from,
			"to", to,
			"status", common.ErrorToStatusCode(err),
			"error", err,
		)
		return common.ProblemDetailsJSON(c, common.ErrorTitle(err), err)
	}
	return common.SuccessResponseJSON(c, fiber.StatusOK, "Conversion completed", toDTO(res))
}

// ProvidersHealth handles GET /api/providers/health. It answers 503 when any
// provider is unhealthy.
func ProvidersHealth(providers []provider.ExchangeRate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		results := provider.HealthCheckAll(c.UserContext(), providers)
		out := make([]ProviderHealthDTO, 0, len(results))
		status := fiber.StatusOK
		for name, err := range results {
			h := ProviderHealthDTO{Provider: name, Healthy: err == nil}
			if err != nil {
				h.Error = conversion.UserMessage(err)
				status = fiber.StatusServiceUnavailable
			}
			out = append(out, h)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })

		msg := "All providers healthy"
		if status != fiber.StatusOK {
			msg = "Some providers are unhealthy"
		}
		return common.SuccessResponseJSON(c, status, msg, out)
	}
}
