package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest      = errors.New("locationId and date are required")
	ErrCredentialsMissing  = errors.New("upstream credentials are not configured")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrMalformedPayload    = errors.New("invalid JSON response from upstream")
)

// UpstreamError keeps what the dining API answered so it can be logged.
type UpstreamError struct {
	Op         string
	Status     int // 0 when the transport failed
	StatusText string
	Body       string
	Err        error // ErrUpstreamUnavailable or ErrMalformedPayload
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 || errors.Is(e.Err, ErrMalformedPayload) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v: %v", e.Op, e.Err, e.Cause)
		}
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s error: %s - %s", e.Op, e.StatusText, e.Body)
	}
	return fmt.Sprintf("%s error: %s", e.Op, e.StatusText)
}

func (e *UpstreamError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}
