package conversion

import "errors"

// Errors returned by the conversion pipeline. Every one of them is terminal for
// the request that produced it.
var (
	// ErrInvalidCurrencyCode indicates that a currency code is not three letters.
	ErrInvalidCurrencyCode = errors.New("invalid currency code")

	// ErrInvalidAmount indicates that the amount is not a positive number.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNetwork indicates a transport or HTTP failure while talking to a provider.
	ErrNetwork = errors.New("rate provider request failed")

	// ErrRateNotFound indicates a well-formed lookup that lacks a usable rate.
	ErrRateNotFound = errors.New("exchange rate not found")

	// ErrFormatting indicates that a derived value is not a finite number.
	ErrFormatting = errors.New("conversion produced a non-numeric value")
)

// ProviderError represents an error from a rate provider
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return "provider " + e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError checks if an error is (or wraps) a ProviderError
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
