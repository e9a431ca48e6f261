package web

import (
	"sort"
	"sync"
	"time"
)

// minSamples is the number of samples needed before Median reports anything.
const minSamples = 5

// LatencyTracker keeps query latencies over a rolling window and reports
// their median. Safe for concurrent use.
type LatencyTracker struct {
	window time.Duration

	mu      sync.Mutex
	samples []latencySample
}

type latencySample struct {
	ts time.Time
	d  time.Duration
}

// NewLatencyTracker creates a tracker with the given rolling window.
func NewLatencyTracker(window time.Duration) *LatencyTracker {
	return &LatencyTracker{window: window}
}

// Record adds a sample taken now.
func (t *LatencyTracker) Record(d time.Duration) {
	t.RecordAt(time.Now(), d)
}

// RecordAt adds a sample at a specific timestamp. Negative durations are
// dropped.
func (t *LatencyTracker) RecordAt(ts time.Time, d time.Duration) {
	if d < 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples = append(t.samples, latencySample{ts: ts, d: d})
	t.evict(ts)
}

// Median returns the P50 latency in the window as of now, or 0 with fewer
// than minSamples samples.
func (t *LatencyTracker) Median() time.Duration {
	return t.MedianAt(time.Now())
}

// MedianAt is Median as of a specific time.
func (t *LatencyTracker) MedianAt(now time.Time) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evict(now)
	if len(t.samples) < minSamples {
		return 0
	}
	ds := make([]time.Duration, len(t.samples))
	for i, s := range t.samples {
		ds[i] = s.d
	}
	sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })
	return ds[len(ds)/2]
}

// Count returns the number of samples in the window as of now.
func (t *LatencyTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evict(time.Now())
	return len(t.samples)
}

// evict drops samples older than the window. Caller holds mu.
func (t *LatencyTracker) evict(now time.Time) {
	cutoff := now.Add(-t.window)
	i := 0
	for i < len(t.samples) && t.samples[i].ts.Before(cutoff) {
		i++
	}
	if i > 0 {
		t.samples = append(t.samples[:0], t.samples[i:]...)
	}
}
