package metrics

import (
	"sync"
	"time"
)

type callStats struct {
	calls       int
	errors      int
	iterations  int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about team loads and simulation
// batches, and forwards them to otel instruments when telemetry is enabled.
type Recorder struct {
	mu        sync.Mutex
	providers map[string]*callStats
	batches   map[string]*callStats
	otel      *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		providers: make(map[string]*callStats),
		batches:   make(map[string]*callStats),
		otel:      otel,
	}
}

// RecordProviderAttempt counts a team provider fetch and stores its latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := ensure(r.providers, provider)
	stats.calls++
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordBatch counts a simulation batch started by trigger (startup, interval, admin, cli).
// Iterations only accumulate for successful batches.
func (r *Recorder) RecordBatch(trigger string, iterations int, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := ensure(r.batches, trigger)
	stats.calls++
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	} else {
		stats.iterations += iterations
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordBatch(trigger, iterations, duration, err)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a copy of the stats recorded under one name.
type Snapshot struct {
	Calls       int
	Errors      int
	Iterations  int
	LastLatency time.Duration
}

// ProviderSnapshot returns the stats recorded for a team provider.
func (r *Recorder) ProviderSnapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshotOf(r.providers[provider])
}

// BatchSnapshot returns the stats recorded for a batch trigger.
func (r *Recorder) BatchSnapshot(trigger string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshotOf(r.batches[trigger])
}

// TotalIterations sums simulated tournaments across every trigger.
func (r *Recorder) TotalIterations() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, s := range r.batches {
		total += s.iterations
	}
	return total
}

func ensure(m map[string]*callStats, key string) *callStats {
	stats, ok := m[key]
	if !ok {
		stats = &callStats{}
		m[key] = stats
	}
	return stats
}

func snapshotOf(stats *callStats) Snapshot {
	if stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:       stats.calls,
		Errors:      stats.errors,
		Iterations:  stats.iterations,
		LastLatency: stats.lastLatency,
	}
}
