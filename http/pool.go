package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
)

// agent is a pooled keep-alive transport for one protocol, together with the
// *http.Client that drives it.
type agent struct {
	transport *http.Transport
	client    *http.Client
	secure    bool
}

// agentSlot holds at most one agent for the lifetime of its pool.
type agentSlot struct {
	once  sync.Once
	agent atomic.Pointer[agent]
}

func (s *agentSlot) get(build func() *agent) *agent {
	s.once.Do(func() {
		s.agent.Store(build())
	})
	return s.agent.Load()
}

// agentPool lazily creates one agent per protocol. Agents are never replaced
// or evicted.
type agentPool struct {
	options  AgentOptions
	resolver Resolver

	plain  agentSlot
	secure agentSlot
}

func newAgentPool(options AgentOptions, resolver Resolver) *agentPool {
	return &agentPool{
		options:  options,
		resolver: resolver,
	}
}

// agentFor returns the agent for u's scheme: https selects the secure agent,
// every other scheme the plain one.
func (p *agentPool) agentFor(u *url.URL) *agent {
	if strings.EqualFold(u.Scheme, "https") {
		return p.secure.get(func() *agent { return p.newAgent(true) })
	}
	return p.plain.get(func() *agent { return p.newAgent(false) })
}

func (p *agentPool) newAgent(secure bool) *agent {
	opts := p.options

	dialer := &net.Dialer{
		Timeout:   opts.DialTimeout,
		KeepAlive: opts.KeepAlive,
	}

	transport := &http.Transport{
		DialContext:           p.dialContext(dialer),
		MaxIdleConns:          opts.MaxIdleConns,
		MaxIdleConnsPerHost:   opts.MaxIdleConnsPerHost,
		MaxConnsPerHost:       opts.MaxConnsPerHost,
		IdleConnTimeout:       opts.IdleConnTimeout,
		DisableKeepAlives:     opts.DisableKeepAlives,
		ResponseHeaderTimeout: opts.ResponseHeaderTimeout,
	}
	if secure {
		transport.TLSClientConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: opts.InsecureSkipVerify,
		}
		transport.TLSHandshakeTimeout = opts.TLSHandshakeTimeout
		transport.ForceAttemptHTTP2 = true
	}

	return &agent{
		transport: transport,
		client: &http.Client{
			Transport: transport,
			// Redirects are returned to the caller as-is.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		secure: secure,
	}
}

// dialContext resolves the host through the pool's resolver and dials IPv4 only.
func (p *agentPool) dialContext(dialer *net.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, _ string, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}

		ip := host
		if net.ParseIP(host) == nil {
			// The injected resolver bypasses net's own DNS hooks.
			trace := httptrace.ContextClientTrace(ctx)
			if trace != nil && trace.DNSStart != nil {
				trace.DNSStart(httptrace.DNSStartInfo{Host: host})
			}
			ip, err = p.resolver.Resolve(ctx, host, ResolveOptions{Family: FamilyIPv4})
			if trace != nil && trace.DNSDone != nil {
				trace.DNSDone(httptrace.DNSDoneInfo{Err: err})
			}
			if err != nil {
				return nil, fmt.Errorf("resolve %s: %w", host, err)
			}
		}

		return dialer.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
	}
}

// closeIdle closes idle connections on the agents created so far.
func (p *agentPool) closeIdle() {
	for _, slot := range []*agentSlot{&p.plain, &p.secure} {
		if a := slot.agent.Load(); a != nil {
			a.transport.CloseIdleConnections()
		}
	}
}
