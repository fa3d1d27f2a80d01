package response

import (
	"errors"
	"net/http"
)

// HTTPError carries an explicit status code through the error chain.
type HTTPError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}

// ValidationError marks missing or malformed request fields (400).
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string { return e.Message }

// Validation creates a ValidationError.
func Validation(message string) ValidationError {
	return ValidationError{Message: message}
}

// UpstreamError carries a failure from an external API (10Web, Stripe,
// OpenAI). The upstream status code is passed through when available.
type UpstreamError struct {
	Service string
	Status  int
	Message string
}

func (e UpstreamError) Error() string {
	return e.Service + ": " + e.Message
}

// Classify maps an error to an HTTP status code and a user-facing message.
// Unknown errors map to 500 with a generic message so internal details never
// leak into responses.
func Classify(err error) (int, string) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, httpErr.Message
	}

	var valErr ValidationError
	if errors.As(err, &valErr) {
		return http.StatusBadRequest, valErr.Message
	}

	var upErr UpstreamError
	if errors.As(err, &upErr) {
		status := upErr.Status
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		return status, upErr.Message
	}

	return http.StatusInternalServerError, "internal server error"
}
