package remote

import (
	"errors"
	"fmt"
)

// ErrNotConfigured means the record store endpoint is unset or malformed.
// All data operations are blocked until the configuration is fixed.
var ErrNotConfigured = errors.New("remote: record store endpoint is not configured")

// TransportError wraps a request that failed to complete at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote: request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StoreError is an error the record store itself reported
// (envelope status "error").
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	if e.Message == "" {
		return "remote: the store reported an unspecified error"
	}
	return "remote: " + e.Message
}

// ParseError means the response body was not in the expected shape. In
// practice this is almost always a stale or misconfigured remote deployment
// rather than a network problem, so the message says so.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("remote: the store returned data in an unexpected shape "+
		"(this usually means the remote deployment is stale or misconfigured; "+
		"redeploy it and retry): %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParse reports whether err is a response-shape failure.
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
