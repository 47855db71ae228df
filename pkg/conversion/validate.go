package conversion

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizeCode trims and uppercases a currency code.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// IsValidCode reports whether code is exactly three uppercase ASCII letters.
func IsValidCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	return code[0] >= 'A' && code[0] <= 'Z' &&
		code[1] >= 'A' && code[1] <= 'Z' &&
		code[2] >= 'A' && code[2] <= 'Z'
}

// Validate turns raw user input into a Request.
func Validate(rawBase, rawDest, rawAmount string) (Request, error) {
	base := NormalizeCode(rawBase)
	dest := NormalizeCode(rawDest)
	if !IsValidCode(base) {
		return Request{}, fmt.Errorf("%w: base %q", ErrInvalidCurrencyCode, base)
	}
	if !IsValidCode(dest) {
		return Request{}, fmt.Errorf("%w: destination %q", ErrInvalidCurrencyCode, dest)
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(rawAmount), 64)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %q", ErrInvalidAmount, rawAmount)
	}
	// ParseFloat accepts "NaN" and "Inf".
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return Request{}, fmt.Errorf("%w: %q", ErrInvalidAmount, rawAmount)
	}

	return Request{Base: base, Dest: dest, Amount: amount}, nil
}
