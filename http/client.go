package http

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/wesleyorama2/strider/metrics"
)

// Client issues GET, form POST, JSON POST and DELETE requests under one
// timeout, pooling, address-family and validation policy.
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	timeout   time.Duration
	timing    bool
	pool      *agentPool
	resolver  Resolver
	validator ResponseValidator
	logger    *slog.Logger
	recorder  *metrics.Recorder
}

// NewClient creates a new HTTP client with the given options.
//
// Example:
//
//	client, err := http.NewClient(
//	    http.WithTimeoutMsecs(5000),
//	    http.WithResolver(dnscache.New()),
//	    http.WithResponseValidator(validator.Success()),
//	)
//
// Malformed options make NewClient return a *ConfigurationError.
func NewClient(options ...ClientOption) (*Client, error) {
	s := settings{}
	for _, option := range options {
		if option != nil {
			option(&s)
		}
	}

	timeout := time.Duration(DefaultTimeoutMsecs) * time.Millisecond
	if s.timeoutMsecs != nil {
		d, err := ValidateTimeout(s.timeoutMsecs, "timeoutMsecs")
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				return nil, configErrorf("timeoutMsecs", "%s", verr.Message)
			}
			return nil, err
		}
		if d > 0 {
			timeout = d
		}
	}

	if err := s.agentOptions.Validate(); err != nil {
		return nil, err
	}

	if s.resolver == nil {
		s.resolver = systemResolver{}
	}
	if s.validator == nil {
		s.validator = AcceptAll
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.timing && s.recorder == nil {
		s.recorder = metrics.NewRecorder()
	}

	return &Client{
		timeout:   timeout,
		timing:    s.timing,
		pool:      newAgentPool(s.agentOptions, s.resolver),
		resolver:  s.resolver,
		validator: s.validator,
		logger:    s.logger,
		recorder:  s.recorder,
	}, nil
}

// Timeout returns the default per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Get issues a GET and decodes the JSON response body when possible.
// params may be nil or a mapping (see ParamsFrom); non-empty params become
// the query string.
func (c *Client) Get(ctx context.Context, url string, params any, opts ...CallOption) (*Result, error) {
	d, err := c.buildGet(url, params, opts)
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, d)
}

// PostForm issues a form-encoded POST. The response body is decoded as JSON
// on a best-effort basis; text that does not parse is passed on unchanged.
func (c *Client) PostForm(ctx context.Context, url string, params any, opts ...CallOption) (*Result, error) {
	d, err := c.buildPostForm(url, params, opts)
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, d)
}

// PostJSON issues a POST with a JSON body. The body must be supplied:
// pass JSONBody(nil) to send null.
func (c *Client) PostJSON(ctx context.Context, url string, body Body, opts ...CallOption) (*Result, error) {
	d, err := c.buildPostJSON(url, body, opts)
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, d)
}

// Delete issues a DELETE with optional query params and an optional JSON
// body. Pass NoBody to omit the body.
func (c *Client) Delete(ctx context.Context, url string, params any, body Body, opts ...CallOption) (*Result, error) {
	d, err := c.buildDelete(url, params, body, opts)
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, d)
}

// Stats returns latency statistics when timing is enabled, keyed by method.
func (c *Client) Stats() metrics.Snapshot {
	return c.recorder.Snapshot()
}

// CloseIdleConnections closes idle keep-alive connections on both pooled
// transports. The transports themselves stay in place.
func (c *Client) CloseIdleConnections() {
	c.pool.closeIdle()
}
