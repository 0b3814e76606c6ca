package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestRecorder_Record(t *testing.T) {
	r := NewRecorder()

	r.Record("GET", 10*time.Millisecond, 1000, true)
	r.Record("GET", 20*time.Millisecond, 2000, true)
	r.Record("POST", 30*time.Millisecond, 500, false)

	snapshot := r.Snapshot()

	if snapshot.TotalRequests != 3 {
		t.Errorf("TotalRequests = %d, want 3", snapshot.TotalRequests)
	}
	if snapshot.SuccessRequests != 2 {
		t.Errorf("SuccessRequests = %d, want 2", snapshot.SuccessRequests)
	}
	if snapshot.FailedRequests != 1 {
		t.Errorf("FailedRequests = %d, want 1", snapshot.FailedRequests)
	}
	if snapshot.TotalBytes != 3500 {
		t.Errorf("TotalBytes = %d, want 3500", snapshot.TotalBytes)
	}
	if snapshot.ErrorRate < 0.33 || snapshot.ErrorRate > 0.34 {
		t.Errorf("ErrorRate = %f, want ~0.333", snapshot.ErrorRate)
	}
	if snapshot.ByName["GET"].Count != 2 {
		t.Errorf("ByName[GET].Count = %d, want 2", snapshot.ByName["GET"].Count)
	}
	if snapshot.ByName["POST"].Count != 1 {
		t.Errorf("ByName[POST].Count = %d, want 1", snapshot.ByName["POST"].Count)
	}
}

func TestRecorder_Percentiles(t *testing.T) {
	r := NewRecorder()

	for i := 1; i <= 10; i++ {
		r.Record("", time.Duration(i*10)*time.Millisecond, 100, true)
	}

	latency := r.Snapshot().Latency

	// HDR histograms keep 3 significant figures
	tolerance := time.Millisecond
	within := func(got, want time.Duration) bool {
		return got >= want-tolerance && got <= want+tolerance
	}

	if !within(latency.Min, 10*time.Millisecond) {
		t.Errorf("Min = %v, want ~10ms", latency.Min)
	}
	if !within(latency.Max, 100*time.Millisecond) {
		t.Errorf("Max = %v, want ~100ms", latency.Max)
	}
	if !within(latency.P50, 50*time.Millisecond) {
		t.Errorf("P50 = %v, want ~50ms", latency.P50)
	}
	if latency.P99 < latency.P90 {
		t.Errorf("P99 (%v) < P90 (%v)", latency.P99, latency.P90)
	}
	if latency.Count != 10 {
		t.Errorf("Count = %d, want 10", latency.Count)
	}
}

func TestRecorder_Clamp(t *testing.T) {
	r := NewRecorder()
	r.Record("", 0, 0, true)
	r.Record("", 2*time.Hour, 0, true)

	latency := r.Snapshot().Latency
	if latency.Min != time.Microsecond {
		t.Errorf("Min = %v, want 1µs", latency.Min)
	}
	if latency.Max < 59*time.Minute {
		t.Errorf("Max = %v, want ~1h", latency.Max)
	}
}

func TestRecorder_Reset(t *testing.T) {
	r := NewRecorder()
	r.Record("GET", time.Millisecond, 10, true)
	r.Reset()

	snapshot := r.Snapshot()
	if snapshot.TotalRequests != 0 || snapshot.TotalBytes != 0 {
		t.Errorf("after Reset got %d requests and %d bytes", snapshot.TotalRequests, snapshot.TotalBytes)
	}
	if len(snapshot.ByName) != 0 {
		t.Errorf("after Reset ByName has %d entries", len(snapshot.ByName))
	}
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	r.Record("GET", time.Millisecond, 1, true)
	r.Reset()
	if s := r.Snapshot(); s.TotalRequests != 0 {
		t.Errorf("nil recorder TotalRequests = %d", s.TotalRequests)
	}
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Record("GET", time.Millisecond, 1, j%10 != 0)
				_ = r.Snapshot()
			}
		}()
	}
	wg.Wait()

	snapshot := r.Snapshot()
	if snapshot.TotalRequests != 1000 {
		t.Errorf("TotalRequests = %d, want 1000", snapshot.TotalRequests)
	}
	if snapshot.FailedRequests != 100 {
		t.Errorf("FailedRequests = %d, want 100", snapshot.FailedRequests)
	}
}
