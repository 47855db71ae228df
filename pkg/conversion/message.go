package conversion

import "errors"

// User-facing messages. The cause behind MsgRequestFailed is logged, never shown.
const (
	MsgInvalidCurrencyCode = "Currency codes must be 3-letter codes like CAD, USD."
	MsgInvalidAmount       = "Amount must be a positive number."
	MsgRequestFailed       = "API request failed. Please try again."
)

// UserMessage maps a pipeline error to the single message a user sees.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCurrencyCode):
		return MsgInvalidCurrencyCode
	case errors.Is(err, ErrInvalidAmount):
		return MsgInvalidAmount
	default:
		return MsgRequestFailed
	}
}
