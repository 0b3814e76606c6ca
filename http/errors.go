package http

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrTimeout is matched by errors.Is for requests that exceeded their timeout.
var ErrTimeout = errors.New("request timed out")

// Meta describes the request a failure belongs to.
type Meta struct {
	// URL is the URL exactly as passed by the caller.
	URL string

	// RemoteAddress is the peer address, when it became known before the
	// outcome was reported. Empty otherwise.
	RemoteAddress string

	// RequestID is the value sent in the X-Request-Id header.
	RequestID string
}

// ConfigurationError reports a malformed client configuration.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// ValidationError reports a malformed timeout, parameter mapping or body for a
// single call. No network activity happens for a call that fails validation.
type ValidationError struct {
	Label   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Label, e.Message)
}

// TransportError wraps a network, DNS or timeout failure.
type TransportError struct {
	OriginalError error
	Meta          Meta
}

func (e *TransportError) Error() string {
	if e.Meta.RemoteAddress != "" {
		return fmt.Sprintf("request to %s (%s) failed: %v", e.Meta.URL, e.Meta.RemoteAddress, e.OriginalError)
	}
	return fmt.Sprintf("request to %s failed: %v", e.Meta.URL, e.OriginalError)
}

func (e *TransportError) Unwrap() error {
	return e.OriginalError
}

// Is makes errors.Is(err, ErrTimeout) true for deadline and network timeouts.
func (e *TransportError) Is(target error) bool {
	if target != ErrTimeout {
		return false
	}
	if errors.Is(e.OriginalError, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.OriginalError, &netErr) && netErr.Timeout()
}

// ResponseRejection is returned when the response validator refused an
// otherwise successful round trip. Result holds what was received.
type ResponseRejection struct {
	OriginalError error
	Meta          Meta
	Result        *Result
}

func (e *ResponseRejection) Error() string {
	return fmt.Sprintf("response from %s rejected: %v", e.Meta.URL, e.OriginalError)
}

func (e *ResponseRejection) Unwrap() error {
	return e.OriginalError
}

// MetaOf returns the request metadata carried by a transport failure or a
// response rejection anywhere in err's chain.
func MetaOf(err error) (Meta, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Meta, true
	}
	var rr *ResponseRejection
	if errors.As(err, &rr) {
		return rr.Meta, true
	}
	return Meta{}, false
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func validationErrorf(label, format string, args ...any) error {
	return &ValidationError{Label: label, Message: fmt.Sprintf(format, args...)}
}
