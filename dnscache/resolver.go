// Package dnscache provides the caching Resolver used by strider clients.
//
// Lookups go through github.com/rs/dnscache, which keeps every answer until
// the next Refresh and collapses concurrent lookups for the same host. The
// address family requested by the client is applied to the cached answer, so
// one cache entry serves IPv4 and IPv6 callers alike.
package dnscache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/rs/dnscache"

	"github.com/wesleyorama2/strider/http"
)

// DefaultRefreshInterval is used by Start when interval is not positive.
const DefaultRefreshInterval = 5 * time.Minute

// Resolver is a caching http.Resolver.
type Resolver struct {
	cache  *dnscache.Resolver
	logger *slog.Logger

	lookups atomic.Int64
	misses  atomic.Int64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout bounds each upstream lookup.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.cache.Timeout = d
	}
}

// WithUpstream replaces the system resolver used on cache misses.
func WithUpstream(upstream dnscache.DNSResolver) Option {
	return func(r *Resolver) {
		r.cache.Resolver = upstream
	}
}

// WithLogger sets the logger for refresh and miss events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates an empty cache.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		cache:  &dnscache.Resolver{},
		logger: slog.Default(),
	}
	r.cache.OnCacheMiss = func() {
		r.misses.Add(1)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the first cached address of host in the requested family.
func (r *Resolver) Resolve(ctx context.Context, host string, opts http.ResolveOptions) (string, error) {
	r.lookups.Add(1)

	addrs, err := r.cache.LookupHost(ctx, host)
	if err != nil {
		return "", err
	}

	for _, addr := range addrs {
		ip := net.ParseIP(addr)
		if ip == nil {
			continue
		}
		if matchesFamily(ip, opts.Family) {
			return ip.String(), nil
		}
	}
	return "", &net.DNSError{
		Err:        fmt.Sprintf("no IPv%d address", opts.Family),
		Name:       host,
		IsNotFound: true,
	}
}

func matchesFamily(ip net.IP, family int) bool {
	switch family {
	case 4:
		return ip.To4() != nil
	case 6:
		return ip.To4() == nil
	default:
		return true
	}
}

// Refresh re-resolves every cached host. With clearUnused, hosts that were not
// looked up since the previous refresh are dropped.
func (r *Resolver) Refresh(clearUnused bool) {
	r.cache.Refresh(clearUnused)
}

// Start refreshes the cache every interval until ctx is done. Unused hosts
// are evicted on each pass.
func (r *Resolver) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Refresh(true)
				r.logger.Debug("dns cache refreshed",
					"lookups", r.lookups.Load(),
					"misses", r.misses.Load())
			}
		}
	}()
}

// Stats reports how many lookups were served and how many missed the cache.
func (r *Resolver) Stats() (lookups, misses int64) {
	return r.lookups.Load(), r.misses.Load()
}
