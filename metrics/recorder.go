// Package metrics records request latencies in HDR histograms.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Recorder aggregates request latencies overall and per request name.
//
// Histograms record microseconds from 1µs to 1 hour with 3 significant
// figures; values outside that range are clamped.
//
// # Thread Safety
//
// Recorder is safe for concurrent use. Counters use atomic operations and
// histograms use mutex protection. A nil *Recorder discards everything.
type Recorder struct {
	latencyHist   *hdrhistogram.Histogram
	latencyHistMu sync.Mutex

	// Per-name histograms, keyed by HTTP method in this client
	namedHists   map[string]*hdrhistogram.Histogram
	namedHistsMu sync.Mutex

	totalRequests   atomic.Int64
	successRequests atomic.Int64
	failedRequests  atomic.Int64
	totalBytes      atomic.Int64

	// Guarded by latencyHistMu
	startTime time.Time
}

const (
	histogramMin     = 1
	histogramMax     = 3600000000 // 1 hour in microseconds
	histogramSigFigs = 3
)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		latencyHist: hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
		namedHists:  make(map[string]*hdrhistogram.Histogram),
		startTime:   time.Now(),
	}
}

// Record adds one request outcome.
//
// Parameters:
//   - name: per-name breakdown key (empty string to skip)
//   - duration: the request latency
//   - bytes: number of response bytes received
//   - success: whether the request completed without a transport error
func (r *Recorder) Record(name string, duration time.Duration, bytes int, success bool) {
	if r == nil {
		return
	}

	latencyMicros := clamp(duration.Microseconds())

	// HDR histogram RecordValue is NOT thread-safe
	r.latencyHistMu.Lock()
	_ = r.latencyHist.RecordValue(latencyMicros)
	r.latencyHistMu.Unlock()

	if name != "" {
		r.namedHistsMu.Lock()
		hist, ok := r.namedHists[name]
		if !ok {
			hist = hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)
			r.namedHists[name] = hist
		}
		_ = hist.RecordValue(latencyMicros)
		r.namedHistsMu.Unlock()
	}

	r.totalRequests.Add(1)
	r.totalBytes.Add(int64(bytes))
	if success {
		r.successRequests.Add(1)
	} else {
		r.failedRequests.Add(1)
	}
}

func clamp(micros int64) int64 {
	if micros < histogramMin {
		return histogramMin
	}
	if micros > histogramMax {
		return histogramMax
	}
	return micros
}

// Snapshot returns a point-in-time view of everything recorded.
func (r *Recorder) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}

	r.latencyHistMu.Lock()
	latency := statsOf(r.latencyHist)
	started := r.startTime
	r.latencyHistMu.Unlock()

	r.namedHistsMu.Lock()
	byName := make(map[string]LatencyStats, len(r.namedHists))
	for name, hist := range r.namedHists {
		byName[name] = statsOf(hist)
	}
	r.namedHistsMu.Unlock()

	total := r.totalRequests.Load()
	failed := r.failedRequests.Load()
	errorRate := 0.0
	if total > 0 {
		errorRate = float64(failed) / float64(total)
	}

	return Snapshot{
		TotalRequests:   total,
		SuccessRequests: r.successRequests.Load(),
		FailedRequests:  failed,
		TotalBytes:      r.totalBytes.Load(),
		ErrorRate:       errorRate,
		Latency:         latency,
		ByName:          byName,
		Elapsed:         time.Since(started),
	}
}

// Reset clears all recorded values.
func (r *Recorder) Reset() {
	if r == nil {
		return
	}
	r.latencyHistMu.Lock()
	r.latencyHist.Reset()
	r.startTime = time.Now()
	r.latencyHistMu.Unlock()

	r.namedHistsMu.Lock()
	r.namedHists = make(map[string]*hdrhistogram.Histogram)
	r.namedHistsMu.Unlock()

	r.totalRequests.Store(0)
	r.successRequests.Store(0)
	r.failedRequests.Store(0)
	r.totalBytes.Store(0)
}

func statsOf(hist *hdrhistogram.Histogram) LatencyStats {
	return LatencyStats{
		Min:   time.Duration(hist.Min()) * time.Microsecond,
		Max:   time.Duration(hist.Max()) * time.Microsecond,
		Mean:  time.Duration(hist.Mean()) * time.Microsecond,
		P50:   time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond,
		P90:   time.Duration(hist.ValueAtQuantile(90)) * time.Microsecond,
		P95:   time.Duration(hist.ValueAtQuantile(95)) * time.Microsecond,
		P99:   time.Duration(hist.ValueAtQuantile(99)) * time.Microsecond,
		Count: hist.TotalCount(),
	}
}

// Snapshot contains a point-in-time view of all metrics.
type Snapshot struct {
	TotalRequests   int64                   `json:"totalRequests" yaml:"totalRequests"`
	SuccessRequests int64                   `json:"successRequests" yaml:"successRequests"`
	FailedRequests  int64                   `json:"failedRequests" yaml:"failedRequests"`
	TotalBytes      int64                   `json:"totalBytes" yaml:"totalBytes"`
	ErrorRate       float64                 `json:"errorRate" yaml:"errorRate"`
	Latency         LatencyStats            `json:"latency" yaml:"latency"`
	ByName          map[string]LatencyStats `json:"byName,omitempty" yaml:"byName,omitempty"`
	Elapsed         time.Duration           `json:"elapsed" yaml:"elapsed"`
}

// LatencyStats contains latency statistics.
type LatencyStats struct {
	Min   time.Duration `json:"min" yaml:"min"`
	Max   time.Duration `json:"max" yaml:"max"`
	Mean  time.Duration `json:"mean" yaml:"mean"`
	P50   time.Duration `json:"p50" yaml:"p50"`
	P90   time.Duration `json:"p90" yaml:"p90"`
	P95   time.Duration `json:"p95" yaml:"p95"`
	P99   time.Duration `json:"p99" yaml:"p99"`
	Count int64         `json:"count" yaml:"count"`
}
