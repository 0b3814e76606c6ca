package http

import (
	"context"
	"fmt"
	"net"
)

// FamilyIPv4 is the only address family requests are dialed with.
const FamilyIPv4 = 4

// ResolveOptions narrows a lookup.
type ResolveOptions struct {
	// Family is 4 or 6; 0 accepts either.
	Family int
}

// Resolver maps a hostname to a single address. Implementations usually cache.
type Resolver interface {
	Resolve(ctx context.Context, host string, opts ResolveOptions) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, host string, opts ResolveOptions) (string, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, host string, opts ResolveOptions) (string, error) {
	return f(ctx, host, opts)
}

// systemResolver looks hosts up with net.DefaultResolver on every call.
type systemResolver struct{}

func (systemResolver) Resolve(ctx context.Context, host string, opts ResolveOptions) (string, error) {
	network := "ip"
	switch opts.Family {
	case 4:
		network = "ip4"
	case 6:
		network = "ip6"
	}
	addrs, err := net.DefaultResolver.LookupNetIP(ctx, network, host)
	if err != nil {
		return "", err
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("no %s address for %s", network, host)
	}
	return addrs[0].Unmap().String(), nil
}

// ResponseValidator decides whether a completed round trip is acceptable.
// A non-nil error turns the call into a *ResponseRejection.
type ResponseValidator interface {
	Validate(result *Result) error
}

// ResponseValidatorFunc adapts a function to ResponseValidator.
type ResponseValidatorFunc func(result *Result) error

// Validate calls f.
func (f ResponseValidatorFunc) Validate(result *Result) error {
	return f(result)
}

// AcceptAll is the default ResponseValidator. It accepts every response,
// leaving status interpretation to the caller.
var AcceptAll ResponseValidator = ResponseValidatorFunc(func(*Result) error { return nil })
