package sheets

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// CallTracker counts backend requests per endpoint and failed operations per
// operation name. Counts are kept for the process lifetime and for a window
// that ResetWindow restarts.
type CallTracker struct {
	mu          sync.RWMutex
	windowStart time.Time
	window      usage
	lifetime    usage
}

type usage struct {
	calls    map[string]int64
	failures map[string]int64
}

func newUsage() usage {
	return usage{
		calls:    make(map[string]int64),
		failures: make(map[string]int64),
	}
}

// Stats is a snapshot of a tracker. The per-name maps cover the current window.
type Stats struct {
	Window              time.Duration
	WindowCalls         int64
	WindowFailures      int64
	TotalCalls          int64
	TotalFailures       int64
	CallsByEndpoint     map[string]int64
	FailuresByOperation map[string]int64
}

// NewCallTracker creates a tracker whose window starts now
func NewCallTracker() *CallTracker {
	return &CallTracker{
		windowStart: time.Now(),
		window:      newUsage(),
		lifetime:    newUsage(),
	}
}

// RecordCall counts one request to a backend endpoint
func (t *CallTracker) RecordCall(endpoint string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.window.calls[endpoint]++
	t.lifetime.calls[endpoint]++
}

// RecordFailure counts one failed operation
func (t *CallTracker) RecordFailure(operation string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.window.failures[operation]++
	t.lifetime.failures[operation]++
}

// Calls returns the lifetime number of requests made to endpoint
func (t *CallTracker) Calls(endpoint string) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lifetime.calls[endpoint]
}

// Failures returns the lifetime number of failures of operation
func (t *CallTracker) Failures(operation string) int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lifetime.failures[operation]
}

// Stats returns a copy of the current counters
func (t *CallTracker) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return Stats{
		Window:              time.Since(t.windowStart),
		WindowCalls:         sum(t.window.calls),
		WindowFailures:      sum(t.window.failures),
		TotalCalls:          sum(t.lifetime.calls),
		TotalFailures:       sum(t.lifetime.failures),
		CallsByEndpoint:     copyCounts(t.window.calls),
		FailuresByOperation: copyCounts(t.window.failures),
	}
}

// ResetWindow starts a new window. Lifetime counts are kept.
func (t *CallTracker) ResetWindow() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.windowStart = time.Now()
	t.window = newUsage()
}

// LogSummary logs the window's usage and the lifetime totals
func (t *CallTracker) LogSummary() {
	stats := t.Stats()

	event := log.Info()
	if stats.WindowFailures > 0 {
		event = log.Warn()
	}
	event = event.
		Dur("window", stats.Window).
		Int64("window_calls", stats.WindowCalls).
		Int64("window_failures", stats.WindowFailures).
		Int64("total_calls", stats.TotalCalls).
		Int64("total_failures", stats.TotalFailures)

	for endpoint, count := range stats.CallsByEndpoint {
		event = event.Int64(endpoint+"_calls", count)
	}
	for operation, count := range stats.FailuresByOperation {
		event = event.Int64(operation+"_failures", count)
	}

	event.Msg("Sheets backend usage")
}

func sum(counts map[string]int64) int64 {
	var n int64
	for _, c := range counts {
		n += c
	}
	return n
}

func copyCounts(counts map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(counts))
	for k, v := range counts {
		out[k] = v
	}
	return out
}
