package models

import (
	"errors"
	"fmt"
)

// ValidationError reports invalid input detected while constructing a value
// object, a request or a client. It is never returned at send time.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// RequestFailedError is returned when the service answered with a well-formed
// failure payload. Callers branch on Response.Status and Response.Message.
type RequestFailedError struct {
	Response *FailedResponse
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("kraken.io request failed: status %d: %s", e.Response.Status, e.Response.Message)
}

// ProtocolError is returned when a response body could not be interpreted as
// any known response variant.
type ProtocolError struct {
	Status int
	Err    error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("failed to unmarshal response (status %d): %v", e.Status, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsRequestFailed extracts the failure payload carried by err, if any.
func AsRequestFailed(err error) (*FailedResponse, bool) {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.Response, true
	}
	return nil, false
}

// IsProtocol reports whether err is or wraps a *ProtocolError.
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}
