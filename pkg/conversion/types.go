// Package conversion turns raw user input and a provider rate lookup into a
// formatted currency conversion.
//
// The pipeline is validate -> lookup -> convert:
//   - Validate normalises the raw strings into a Request.
//   - A RateSource (a provider adapter) answers with a LookupResult.
//   - Convert derives the unit rate and converted amount and formats them.
//
// Requests, lookups and results are values; nothing in this package keeps
// state between conversions.
package conversion

import (
	"context"
	"time"
)

// Request is a validated conversion request.
type Request struct {
	Base   string  `json:"base"`
	Dest   string  `json:"dest"`
	Amount float64 `json:"amount"`
}

// Shape tells Convert how the rates in a LookupResult must be read.
type Shape int

const (
	// DirectRate: Rates[dest] is the value of one unit of Base in dest.
	DirectRate Shape = iota + 1
	// CrossRate: Rates holds every code against a common reference currency,
	// the unit rate is Rates[dest] / Rates[base].
	CrossRate
	// ScaledRate: Rates[dest] is already multiplied by Amount.
	ScaledRate
)

func (s Shape) String() string {
	switch s {
	case DirectRate:
		return "direct"
	case CrossRate:
		return "cross"
	case ScaledRate:
		return "scaled"
	default:
		return "unknown"
	}
}

// LookupResult is a provider answer normalised by its adapter.
type LookupResult struct {
	Shape Shape `json:"shape"`
	// Base is the quoting currency for DirectRate and ScaledRate and the
	// reference currency for CrossRate. Empty means "as requested".
	Base string `json:"base,omitempty"`
	// Amount the rates were multiplied by. Only meaningful for ScaledRate.
	Amount   float64            `json:"amount,omitempty"`
	Rates    map[string]float64 `json:"rates"`
	Provider string             `json:"provider"`
	QuotedAt time.Time          `json:"quoted_at"`
}

// Result is a finished conversion. Rate has exactly 4 decimals and Converted
// exactly 2.
type Result struct {
	Rate      string    `json:"rate"`
	Converted string    `json:"converted"`
	Base      string    `json:"base"`
	Dest      string    `json:"dest"`
	Amount    float64   `json:"amount"`
	Provider  string    `json:"provider,omitempty"`
	QuotedAt  time.Time `json:"quoted_at"`
}

// RateSource looks up the rates needed to convert a request.
type RateSource interface {
	LookupRate(ctx context.Context, req Request) (*LookupResult, error)
}
