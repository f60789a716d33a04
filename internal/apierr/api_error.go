package apierr

import "errors"

// APIError is a business error reported by the backend, as opposed to a
// transport failure. Message is the server's text and must be surfaced to the
// user verbatim; Details is an optional second field some endpoints add.
type APIError struct {
	Code    int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// New creates a new APIError with the given status code and message.
func New(code int, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// FromServer reports whether err is a server-reported business error and
// returns it if so.
func FromServer(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
