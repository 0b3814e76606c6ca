package http

import (
	"crypto/tls"
	"net/http/httptrace"
	"sync"
	"time"
)

// TimingInfo stores detailed timing information for an HTTP request.
// All durations represent the time spent in each phase of the request.
// It is only populated when the client was built with WithTiming(true).
type TimingInfo struct {
	// StartTime is when the request started
	StartTime time.Time

	// DNSLookupTime is the time spent looking up the DNS address
	DNSLookupTime time.Duration

	// TCPConnectTime is the time spent establishing a TCP connection
	TCPConnectTime time.Duration

	// TLSHandshakeTime is the time spent performing the TLS handshake (for HTTPS)
	TLSHandshakeTime time.Duration

	// TimeToFirstByte (TTFB) is the time from the last completed phase to receiving the first byte
	TimeToFirstByte time.Duration

	// ContentTransferTime is the time spent reading the response body
	ContentTransferTime time.Duration

	// TotalTime is the total time from request start to completion
	TotalTime time.Duration
}

// tracer feeds httptrace events into a RemoteAddr and, when timing is on,
// into a TimingInfo. Callbacks may run on transport goroutines.
type tracer struct {
	mu     sync.Mutex
	timing TimingInfo
	timed  bool
	remote *RemoteAddr

	dnsStart     time.Time
	connectStart time.Time
	tlsStart     time.Time
	lastPhaseEnd time.Time
}

func newTracer(start time.Time, timed bool, remote *RemoteAddr) *tracer {
	return &tracer{
		timing:       TimingInfo{StartTime: start},
		timed:        timed,
		remote:       remote,
		lastPhaseEnd: start,
	}
}

func (t *tracer) clientTrace() *httptrace.ClientTrace {
	trace := &httptrace.ClientTrace{
		// A reused or freshly dialed connection: its peer is known now.
		GotConn: func(info httptrace.GotConnInfo) {
			if info.Conn != nil && info.Conn.RemoteAddr() != nil {
				t.remote.Resolve(info.Conn.RemoteAddr().String())
			}
		},
		// The dialer reports the resolved address it tried, even on failure.
		ConnectDone: func(network, addr string, err error) {
			t.remote.Resolve(addr)
			if t.timed && err == nil {
				t.phase(func(now time.Time) {
					t.timing.TCPConnectTime = now.Sub(t.connectStart)
				})
			}
		},
	}
	if !t.timed {
		return trace
	}

	trace.DNSStart = func(httptrace.DNSStartInfo) {
		t.mark(&t.dnsStart)
	}
	trace.DNSDone = func(httptrace.DNSDoneInfo) {
		t.phase(func(now time.Time) {
			t.timing.DNSLookupTime = now.Sub(t.dnsStart)
		})
	}
	trace.ConnectStart = func(network, addr string) {
		t.mark(&t.connectStart)
	}
	trace.TLSHandshakeStart = func() {
		t.mark(&t.tlsStart)
	}
	trace.TLSHandshakeDone = func(_ tls.ConnectionState, err error) {
		if err != nil {
			return
		}
		t.phase(func(now time.Time) {
			t.timing.TLSHandshakeTime = now.Sub(t.tlsStart)
		})
	}
	trace.GotFirstResponseByte = func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		// Measured from the end of the last completed phase
		t.timing.TimeToFirstByte = time.Since(t.lastPhaseEnd)
	}
	return trace
}

func (t *tracer) mark(at *time.Time) {
	t.mu.Lock()
	*at = time.Now()
	t.mu.Unlock()
}

// phase records the end of a connection phase.
func (t *tracer) phase(record func(now time.Time)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	record(now)
	t.lastPhaseEnd = now
}

func (t *tracer) finish(total, transfer time.Duration) TimingInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timing.TotalTime = total
	t.timing.ContentTransferTime = transfer
	return t.timing
}
