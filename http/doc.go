// Package http provides an HTTP client that applies one timeout, pooling,
// address-family and input-validation policy to every request it sends.
//
// This package is designed for programmatic use and provides:
//   - GET, form POST, JSON POST and DELETE with synchronous input validation
//   - One pooled keep-alive transport per protocol, shared by all requests
//   - IPv4-only dialing through an injected, usually caching, Resolver
//   - A pluggable ResponseValidator run once per completed round trip
//   - Optional phase timing (DNS, TCP, TLS, TTFB) and latency statistics
//
// Basic Usage:
//
//	client, err := http.NewClient(
//	    http.WithTimeoutMsecs(5000),
//	    http.WithResolver(dnscache.New()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := client.Get(ctx, "https://api.example.com/users",
//	    http.NewParams("limit", 10, "offset", 20))
//	if err != nil {
//	    if meta, ok := http.MetaOf(err); ok {
//	        log.Printf("request to %s (%s) failed", meta.URL, meta.RemoteAddress)
//	    }
//	    log.Fatal(err)
//	}
//	fmt.Printf("Status: %d\n", res.Response.StatusCode)
//
// Bodies:
//
// PostJSON requires a body; Delete takes an optional one. A Body is either
// absent (NoBody) or holds a value accepted by ShapeOf:
//
//	client.PostJSON(ctx, u, http.JSONBody(map[string]any{"name": "x"}))
//	client.Delete(ctx, u, nil, http.NoBody)       // no body sent
//	client.Delete(ctx, u, nil, http.JSONBody(nil)) // body is null
//
// Errors:
//
// Invalid options fail NewClient with *ConfigurationError. Invalid timeouts,
// params or bodies fail the call with *ValidationError before any network
// activity. Network, DNS and timeout failures are *TransportError; a
// ResponseValidator refusal is *ResponseRejection. Both carry Meta. Nothing
// is retried and redirects are not followed.
//
// Thread Safety:
//
// Client is safe for concurrent use. Multiple goroutines may invoke methods
// on a Client simultaneously.
package http
