package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBackend      = errors.New("backend error")
)

// APIError is a failed backend exchange. Message is what the backend said
// (its {"message"} field) or the status text; Err is one of the sentinels
// above so callers can branch with errors.Is.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// statusError classifies a non-2xx response.
func statusError(status int, message string) *APIError {
	if message == "" {
		message = http.StatusText(status)
	}

	var kind error
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = ErrUnauthorized
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusConflict:
		kind = ErrConflict
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		kind = ErrUnavailable
	default:
		kind = ErrBackend
	}

	return &APIError{Status: status, Message: message, Err: kind}
}

func transportError(err error) *APIError {
	return &APIError{Message: fmt.Sprintf("server unavailable: %v", err), Err: ErrUnavailable}
}
