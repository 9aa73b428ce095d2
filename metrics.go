package sqlonfhir

import (
	"sync/atomic"
	"time"
)

// Metrics tracks engine-level projection performance using lock-free
// atomic operations. All methods are safe for concurrent use, matching
// the teacher's own metrics.Metrics design for the same reason: many
// goroutines project resources against the same ViewDefinition
// concurrently (spec §5).
type Metrics struct {
	projectionsTotal atomic.Uint64
	projectionsEmpty atomic.Uint64 // zero rows: e.g. resourceType mismatch, where filtered out, empty forEach
	projectionErrors atomic.Uint64

	rowsEmittedTotal atomic.Uint64

	projectionTimeTotal atomic.Uint64
	projectionTimeMin   atomic.Uint64
	projectionTimeMax   atomic.Uint64

	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.projectionTimeMin.Store(^uint64(0))
	return m
}

// RecordProjection records one completed Project call.
func (m *Metrics) RecordProjection(duration time.Duration, rowCount int, err error) {
	m.projectionsTotal.Add(1)
	if err != nil {
		m.projectionErrors.Add(1)
		return
	}
	if rowCount == 0 {
		m.projectionsEmpty.Add(1)
	}
	m.rowsEmittedTotal.Add(uint64(rowCount))

	ns := uint64(duration.Nanoseconds())
	m.projectionTimeTotal.Add(ns)

	for {
		old := m.projectionTimeMin.Load()
		if ns >= old || m.projectionTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.projectionTimeMax.Load()
		if ns <= old || m.projectionTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordCacheHit records an expression-cache hit.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records an expression-cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// ProjectionsTotal returns the total number of Project calls recorded.
func (m *Metrics) ProjectionsTotal() uint64 {
	return m.projectionsTotal.Load()
}

// ProjectionsEmpty returns the number of projections that produced no
// rows (for example a resourceType mismatch, a failed where clause, or
// a forEach over an empty collection).
func (m *Metrics) ProjectionsEmpty() uint64 {
	return m.projectionsEmpty.Load()
}

// ProjectionErrors returns the number of projections that returned an
// error.
func (m *Metrics) ProjectionErrors() uint64 {
	return m.projectionErrors.Load()
}

// RowsEmittedTotal returns the total number of rows produced across
// every successful projection.
func (m *Metrics) RowsEmittedTotal() uint64 {
	return m.rowsEmittedTotal.Load()
}

// AverageProjectionTime returns the average successful-or-empty
// projection duration.
func (m *Metrics) AverageProjectionTime() time.Duration {
	total := m.projectionsTotal.Load() - m.projectionErrors.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.projectionTimeTotal.Load() / total)
}

// MinProjectionTime returns the minimum recorded projection duration.
func (m *Metrics) MinProjectionTime() time.Duration {
	minVal := m.projectionTimeMin.Load()
	if minVal == ^uint64(0) {
		return 0
	}
	return time.Duration(minVal)
}

// MaxProjectionTime returns the maximum recorded projection duration.
func (m *Metrics) MaxProjectionTime() time.Duration {
	return time.Duration(m.projectionTimeMax.Load())
}

// CacheHitRate returns the expression cache's hit rate (0.0 to 1.0).
func (m *Metrics) CacheHitRate() float64 {
	hits := m.cacheHits.Load()
	misses := m.cacheMisses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
