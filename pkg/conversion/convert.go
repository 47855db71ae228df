package conversion

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	// RatePlaces is the number of decimals a formatted unit rate carries.
	RatePlaces = 4
	// AmountPlaces is the number of decimals a formatted converted amount carries.
	AmountPlaces = 2
)

// Convert derives the unit rate and the converted amount of req from lookup.
//
// Both values are computed with decimal arithmetic and rounded half to even
// (banker's rounding): the rate to RatePlaces, the amount to AmountPlaces.
func Convert(req Request, lookup *LookupResult) (Result, error) {
	if lookup == nil {
		return Result{}, fmt.Errorf("%w: empty lookup for %s->%s", ErrRateNotFound, req.Base, req.Dest)
	}
	amount, err := finite("amount", req.Amount)
	if err != nil {
		return Result{}, err
	}
	if req.Base == req.Dest {
		return identity(req, lookup, amount)
	}

	var unit, converted decimal.Decimal
	switch lookup.Shape {
	case DirectRate:
		if err := checkQuoteBase(req, lookup); err != nil {
			return Result{}, err
		}
		unit, err = rateFor(lookup, req.Dest)
		if err != nil {
			return Result{}, err
		}
		converted = amount.Mul(unit)

	case CrossRate:
		num, err := rateFor(lookup, req.Dest)
		if err != nil {
			return Result{}, err
		}
		den, err := rateFor(lookup, req.Base)
		if err != nil {
			return Result{}, err
		}
		unit = num.Div(den)
		converted = amount.Mul(num).Div(den)

	case ScaledRate:
		if err := checkQuoteBase(req, lookup); err != nil {
			return Result{}, err
		}
		scaled, err := rateFor(lookup, req.Dest)
		if err != nil {
			return Result{}, err
		}
		if lookup.Amount <= 0 || math.IsNaN(lookup.Amount) || math.IsInf(lookup.Amount, 0) {
			return Result{}, fmt.Errorf("%w: scaled lookup amount %v", ErrFormatting, lookup.Amount)
		}
		unit = scaled.Div(decimal.NewFromFloat(lookup.Amount))
		if lookup.Amount == req.Amount {
			converted = scaled
		} else {
			converted = amount.Mul(unit)
		}

	default:
		return Result{}, fmt.Errorf("%w: unknown lookup shape %d", ErrRateNotFound, lookup.Shape)
	}

	return Result{
		Rate:      FormatRate(unit),
		Converted: FormatAmount(converted),
		Base:      req.Base,
		Dest:      req.Dest,
		Amount:    req.Amount,
		Provider:  lookup.Provider,
		QuotedAt:  lookup.QuotedAt,
	}, nil
}

// identity converts a currency into itself. The lookup still has to show that
// the provider knows the code.
func identity(req Request, lookup *LookupResult, amount decimal.Decimal) (Result, error) {
	_, listed := lookup.Rates[req.Base]
	if !listed && lookup.Base != req.Base {
		return Result{}, fmt.Errorf("%w: %s", ErrRateNotFound, req.Base)
	}
	return Result{
		Rate:      FormatRate(decimal.NewFromInt(1)),
		Converted: FormatAmount(amount),
		Base:      req.Base,
		Dest:      req.Dest,
		Amount:    req.Amount,
		Provider:  lookup.Provider,
		QuotedAt:  lookup.QuotedAt,
	}, nil
}

// FormatRate renders a unit rate with RatePlaces decimals.
func FormatRate(d decimal.Decimal) string {
	return d.RoundBank(RatePlaces).StringFixed(RatePlaces)
}

// FormatAmount renders a converted amount with AmountPlaces decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.RoundBank(AmountPlaces).StringFixed(AmountPlaces)
}

func checkQuoteBase(req Request, lookup *LookupResult) error {
	if lookup.Base != "" && lookup.Base != req.Base {
		return fmt.Errorf("%w: rates quoted against %s, need %s", ErrRateNotFound, lookup.Base, req.Base)
	}
	return nil
}

// rateFor reads the positive, finite rate for code. For cross lookups the
// reference currency may be omitted from Rates and is worth 1.
func rateFor(lookup *LookupResult, code string) (decimal.Decimal, error) {
	v, ok := lookup.Rates[code]
	if !ok {
		if lookup.Shape == CrossRate && code == lookup.Base {
			return decimal.NewFromInt(1), nil
		}
		return decimal.Zero, fmt.Errorf("%w: %s", ErrRateNotFound, code)
	}
	d, err := finite(code, v)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s has rate %v", ErrRateNotFound, code, v)
	}
	return d, nil
}

// finite converts v, rejecting NaN and infinities which decimal cannot hold.
func finite(name string, v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, fmt.Errorf("%w: %s is %v", ErrFormatting, name, v)
	}
	return decimal.NewFromFloat(v), nil
}
