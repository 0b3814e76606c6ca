package http

import (
	"log/slog"
	"time"

	"github.com/wesleyorama2/strider/metrics"
)

// DefaultTimeoutMsecs is the request timeout used when none is configured.
const DefaultTimeoutMsecs = 30000

// AgentOptions configures the pooled transports shared by every request of a
// Client. Zero values keep net/http defaults.
type AgentOptions struct {
	// MaxIdleConns caps idle keep-alive connections across all hosts.
	MaxIdleConns int `yaml:"maxIdleConns" json:"maxIdleConns"`

	// MaxIdleConnsPerHost caps idle keep-alive connections per host.
	MaxIdleConnsPerHost int `yaml:"maxIdleConnsPerHost" json:"maxIdleConnsPerHost"`

	// MaxConnsPerHost caps all connections per host, including active ones.
	MaxConnsPerHost int `yaml:"maxConnsPerHost" json:"maxConnsPerHost"`

	// IdleConnTimeout closes idle connections after this long.
	IdleConnTimeout time.Duration `yaml:"idleConnTimeout" json:"idleConnTimeout"`

	// KeepAlive is the TCP keep-alive probe interval.
	KeepAlive time.Duration `yaml:"keepAlive" json:"keepAlive"`

	// DisableKeepAlives opens a new connection per request.
	DisableKeepAlives bool `yaml:"disableKeepAlives" json:"disableKeepAlives"`

	// DialTimeout bounds TCP connection establishment.
	DialTimeout time.Duration `yaml:"dialTimeout" json:"dialTimeout"`

	// TLSHandshakeTimeout bounds the TLS handshake on the secure transport.
	TLSHandshakeTimeout time.Duration `yaml:"tlsHandshakeTimeout" json:"tlsHandshakeTimeout"`

	// ResponseHeaderTimeout bounds the wait for response headers.
	ResponseHeaderTimeout time.Duration `yaml:"responseHeaderTimeout" json:"responseHeaderTimeout"`

	// InsecureSkipVerify disables certificate verification.
	// WARNING: This should only be used for testing purposes.
	InsecureSkipVerify bool `yaml:"insecureSkipVerify" json:"insecureSkipVerify"`
}

// Validate rejects negative limits and durations with a *ConfigurationError.
func (o AgentOptions) Validate() error {
	ints := []struct {
		field string
		value int
	}{
		{"agentOptions.maxIdleConns", o.MaxIdleConns},
		{"agentOptions.maxIdleConnsPerHost", o.MaxIdleConnsPerHost},
		{"agentOptions.maxConnsPerHost", o.MaxConnsPerHost},
	}
	for _, f := range ints {
		if f.value < 0 {
			return configErrorf(f.field, "cannot be negative, got %d", f.value)
		}
	}

	durations := []struct {
		field string
		value time.Duration
	}{
		{"agentOptions.idleConnTimeout", o.IdleConnTimeout},
		{"agentOptions.keepAlive", o.KeepAlive},
		{"agentOptions.dialTimeout", o.DialTimeout},
		{"agentOptions.tlsHandshakeTimeout", o.TLSHandshakeTimeout},
		{"agentOptions.responseHeaderTimeout", o.ResponseHeaderTimeout},
	}
	for _, f := range durations {
		if f.value < 0 {
			return configErrorf(f.field, "cannot be negative, got %v", f.value)
		}
	}
	return nil
}

// settings is the configuration a ClientOption mutates before NewClient
// validates it.
type settings struct {
	timeoutMsecs any
	timing       bool
	agentOptions AgentOptions
	resolver     Resolver
	validator    ResponseValidator
	logger       *slog.Logger
	recorder     *metrics.Recorder
}

// ClientOption is a function that configures a Client.
type ClientOption func(*settings)

// WithTimeoutMsecs sets the default per-request timeout in milliseconds.
// The default is 30000. Values that are not positive make NewClient fail.
func WithTimeoutMsecs(ms int) ClientOption {
	return func(s *settings) {
		s.timeoutMsecs = ms
	}
}

// WithTimeoutValue sets the default timeout from a loosely typed value, such
// as a number decoded from a configuration file. It is checked with
// ValidateTimeout when the client is built.
func WithTimeoutValue(v any) ClientOption {
	return func(s *settings) {
		s.timeoutMsecs = v
	}
}

// WithTiming enables per-request phase timing and latency recording.
func WithTiming(enabled bool) ClientOption {
	return func(s *settings) {
		s.timing = enabled
	}
}

// WithAgentOptions configures both pooled transports.
func WithAgentOptions(opts AgentOptions) ClientOption {
	return func(s *settings) {
		s.agentOptions = opts
	}
}

// WithResolver sets the hostname resolver used when dialing.
// Without one, hosts are resolved with net.DefaultResolver on every dial.
func WithResolver(r Resolver) ClientOption {
	return func(s *settings) {
		s.resolver = r
	}
}

// WithResponseValidator sets the check run on every completed round trip.
// The default accepts every response.
func WithResponseValidator(v ResponseValidator) ClientOption {
	return func(s *settings) {
		s.validator = v
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) ClientOption {
	return func(s *settings) {
		s.logger = l
	}
}

// WithRecorder sets the latency recorder fed when timing is enabled.
// A recorder is created automatically if timing is on and none is given.
func WithRecorder(r *metrics.Recorder) ClientOption {
	return func(s *settings) {
		s.recorder = r
	}
}

type callSettings struct {
	timeout    any
	overridden bool
	validator  ResponseValidator
}

// CallOption adjusts a single request.
type CallOption func(*callSettings)

// WithCallTimeout overrides the client timeout for one request.
func WithCallTimeout(ms int) CallOption {
	return func(c *callSettings) {
		c.timeout = ms
		c.overridden = true
	}
}

// WithCallTimeoutValue overrides the client timeout from a loosely typed
// value. A nil value keeps the client default.
func WithCallTimeoutValue(v any) CallOption {
	return func(c *callSettings) {
		c.timeout = v
		c.overridden = v != nil
	}
}

// WithCallValidator replaces the client's ResponseValidator for one request.
func WithCallValidator(v ResponseValidator) CallOption {
	return func(c *callSettings) {
		c.validator = v
	}
}
