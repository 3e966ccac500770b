package metrics

import (
	"sync/atomic"
	"time"
)

// MetricID indexes one counter or histogram slot.
type MetricID uint8

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricRegisterSuccess
	MetricRegisterDuplicate
	MetricRegisterInvalid
	MetricLogout
	MetricTokenRevoked
	MetricAuthorizeSuccess
	MetricAuthorizeUnauthenticated
	MetricAuthorizeForbidden
	MetricAuthorizeLatency

	MetricIDCount
)

// BucketCount is the fixed number of histogram buckets.
const BucketCount = 8

// BucketBounds are the upper bounds of the first seven buckets; the eighth is
// +Inf. Values are compared in nanoseconds.
var BucketBounds = [BucketCount - 1]time.Duration{
	5 * time.Millisecond,
	10 * time.Millisecond,
	25 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	250 * time.Millisecond,
	500 * time.Millisecond,
}

// Config controls which metric families are active.
type Config struct {
	Enabled       bool
	EnableLatency bool
}

// paddedCounter keeps each slot on its own cache line so concurrent
// increments of different metrics do not false-share.
type paddedCounter struct {
	value uint64
	_     [56]byte
}

// Metrics holds atomic counters and optional latency histograms. The zero
// value is unusable; construct with [New].
type Metrics struct {
	cfg      Config
	counters [MetricIDCount]paddedCounter
	buckets  [MetricIDCount][BucketCount]paddedCounter
}

// Snapshot is a point-in-time deep copy of all metrics.
type Snapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// New creates a Metrics instance. When cfg.Enabled is false all operations
// are no-ops and Snapshot returns empty maps.
func New(cfg Config) *Metrics {
	return &Metrics{cfg: cfg}
}

// Inc atomically increments the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.cfg.Enabled || id >= MetricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a latency sample into the histogram for id.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.cfg.Enabled || !m.cfg.EnableLatency || id >= MetricIDCount {
		return
	}
	bucket := BucketCount - 1
	for i, bound := range BucketBounds {
		if d <= bound {
			bucket = i
			break
		}
	}
	atomic.AddUint64(&m.buckets[id][bucket].value, 1)
}

// Snapshot returns a deep copy of all non-zero metrics.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Counters:   map[MetricID]uint64{},
		Histograms: map[MetricID][]uint64{},
	}
	if m == nil || !m.cfg.Enabled {
		return snap
	}

	for id := MetricID(0); id < MetricIDCount; id++ {
		if v := atomic.LoadUint64(&m.counters[id].value); v > 0 {
			snap.Counters[id] = v
		}
	}
	if !m.cfg.EnableLatency {
		return snap
	}
	for id := MetricID(0); id < MetricIDCount; id++ {
		var total uint64
		buckets := make([]uint64, BucketCount)
		for i := 0; i < BucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.buckets[id][i].value)
			total += buckets[i]
		}
		if total > 0 {
			snap.Histograms[id] = buckets
		}
	}
	return snap
}
