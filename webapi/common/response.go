// Package common holds the response envelopes and error mapping shared by the
// HTTP handlers.
package common

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/amirasaad/fxconvert/pkg/conversion"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

const problemJSON = "application/problem+json"

var validate = validator.New(validator.WithRequiredStructEnabled())

// SuccessResponseJSON writes a Response envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: status, Message: message, Data: data})
}

// ErrorResponseJSON writes a problem details document. A string detail becomes
// Detail, anything else goes to Errors.
func ErrorResponseJSON(c *fiber.Ctx, status int, title string, detail any) error {
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Instance: c.OriginalURL(),
	}
	if detail != nil {
		if s, ok := detail.(string); ok {
			pd.Detail = s
		} else {
			pd.Errors = detail
		}
	}
	return c.Status(status).JSON(pd, problemJSON)
}

// ProblemDetailsJSON writes err as a problem details document. The status is
// derived from err unless given. Detail is the user-facing message, never the
// cause.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, status ...int) error {
	code := ErrorToStatusCode(err)
	if len(status) > 0 {
		code = status[0]
	}
	return ErrorResponseJSON(c, code, title, conversion.UserMessage(err))
}

// ErrorToStatusCode maps conversion errors to HTTP status codes.
func ErrorToStatusCode(err error) int {
	var fe *fiber.Error
	switch {
	case errors.Is(err, conversion.ErrInvalidCurrencyCode),
		errors.Is(err, conversion.ErrInvalidAmount):
		return fiber.StatusBadRequest
	case errors.Is(err, conversion.ErrRateNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, conversion.ErrNetwork):
		return fiber.StatusBadGateway
	case errors.As(err, &fe):
		return fe.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorTitle is the problem title for err.
func ErrorTitle(err error) string {
	switch {
	case errors.Is(err, conversion.ErrInvalidCurrencyCode):
		return "Invalid currency code"
	case errors.Is(err, conversion.ErrInvalidAmount):
		return "Invalid amount"
	case errors.Is(err, conversion.ErrRateNotFound):
		return "Exchange rate not found"
	case errors.Is(err, conversion.ErrNetwork):
		return "Exchange rate provider unavailable"
	case errors.Is(err, conversion.ErrFormatting):
		return "Conversion failed"
	default:
		return "Internal Server Error"
	}
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// On failure it writes a 400 problem response and returns a nil input; the
// error is then the result of writing that response.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", fields)
		}
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	}
	return &input, nil
}
