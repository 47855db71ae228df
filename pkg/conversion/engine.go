package conversion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Engine runs the validate -> lookup -> convert pipeline against a RateSource.
type Engine struct {
	source RateSource
	logger *slog.Logger
}

// NewEngine creates an engine backed by source.
func NewEngine(source RateSource, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{source: source, logger: logger}
}

// Convert validates the raw input, looks the rate up and converts.
// Validation failures return before any lookup is issued.
func (e *Engine) Convert(ctx context.Context, rawBase, rawDest, rawAmount string) (Result, error) {
	req, err := Validate(rawBase, rawDest, rawAmount)
	if err != nil {
		e.logger.Debug("Conversion input rejected",
			"base", rawBase, "dest", rawDest, "amount", rawAmount, "error", err)
		return Result{}, err
	}
	return e.ConvertRequest(ctx, req)
}

// ConvertRequest converts an already validated request.
func (e *Engine) ConvertRequest(ctx context.Context, req Request) (Result, error) {
	log := e.logger.With("base", req.Base, "dest", req.Dest, "amount", req.Amount)

	if e.source == nil {
		return Result{}, fmt.Errorf("%w: no rate source configured", ErrNetwork)
	}

	lookup, err := e.source.LookupRate(ctx, req)
	if err != nil {
		log.Error("Rate lookup failed", "error", err)
		if errors.Is(err, ErrRateNotFound) || errors.Is(err, ErrNetwork) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	result, err := Convert(req, lookup)
	if err != nil {
		log.Warn("Rate lookup unusable",
			"provider", lookup.Provider, "shape", lookup.Shape.String(), "error", err)
		return Result{}, err
	}

	log.Info("Conversion completed",
		"provider", result.Provider, "rate", result.Rate, "converted", result.Converted)
	return result, nil
}
