package convert

import (
	"strconv"
	"time"

	"github.com/amirasaad/fxconvert/pkg/conversion"
)

// ConvertInput is the POST /api/convert body. Codes and amount are checked by
// the conversion engine after these presence checks. Amount is a pointer so
// that an explicit 0 reaches the engine.
type ConvertInput struct {
	From   string   `json:"from" validate:"required"`
	To     string   `json:"to" validate:"required"`
	Amount *float64 `json:"amount" validate:"required"`
}

func (in ConvertInput) rawAmount() string {
	if in.Amount == nil {
		return ""
	}
	return strconv.FormatFloat(*in.Amount, 'f', -1, 64)
}

// ConversionDTO is the data of a successful conversion.
type ConversionDTO struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Amount    float64   `json:"amount"`
	Converted string    `json:"converted"`
	Rate      string    `json:"rate"`
	Provider  string    `json:"provider,omitempty"`
	QuotedAt  time.Time `json:"quoted_at,omitzero"`
}

func toDTO(r conversion.Result) ConversionDTO {
	return ConversionDTO{
		From:      r.Base,
		To:        r.Dest,
		Amount:    r.Amount,
		Converted: r.Converted,
		Rate:      r.Rate,
		Provider:  r.Provider,
		QuotedAt:  r.QuotedAt,
	}
}

// ProviderHealthDTO reports one provider's health.
type ProviderHealthDTO struct {
	Provider string `json:"provider"`
	Healthy  bool   `json:"healthy"`
	Error    string `json:"error,omitempty"`
}
