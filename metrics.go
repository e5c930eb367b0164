package keydex

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordPut is called after each put operation.
	// replaced reports whether an existing element was superseded.
	RecordPut(duration time.Duration, replaced bool)

	// RecordDelete is called after each delete operation.
	// found reports whether the key was present.
	RecordDelete(duration time.Duration, found bool)

	// RecordQuery is called after each secondary index query.
	// index is the queried slot, matches the size of the result.
	RecordQuery(index int, matches int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPut(time.Duration, bool)       {}
func (NoopMetricsCollector) RecordDelete(time.Duration, bool)    {}
func (NoopMetricsCollector) RecordQuery(int, int, time.Duration) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	PutCount        atomic.Int64
	PutReplaced     atomic.Int64
	PutTotalNanos   atomic.Int64
	DeleteCount     atomic.Int64
	DeleteMisses    atomic.Int64
	QueryCount      atomic.Int64
	QueryMatches    atomic.Int64
	QueryTotalNanos atomic.Int64
}

// RecordPut implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPut(duration time.Duration, replaced bool) {
	b.PutCount.Add(1)
	b.PutTotalNanos.Add(duration.Nanoseconds())
	if replaced {
		b.PutReplaced.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(duration time.Duration, found bool) {
	b.DeleteCount.Add(1)
	if !found {
		b.DeleteMisses.Add(1)
	}
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(index int, matches int, duration time.Duration) {
	b.QueryCount.Add(1)
	b.QueryMatches.Add(int64(matches))
	b.QueryTotalNanos.Add(duration.Nanoseconds())
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector counters.
type BasicMetricsStats struct {
	PutCount      int64
	PutReplaced   int64
	PutAvgNanos   int64
	DeleteCount   int64
	DeleteMisses  int64
	QueryCount    int64
	QueryMatches  int64
	QueryAvgNanos int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	stats := BasicMetricsStats{
		PutCount:     b.PutCount.Load(),
		PutReplaced:  b.PutReplaced.Load(),
		DeleteCount:  b.DeleteCount.Load(),
		DeleteMisses: b.DeleteMisses.Load(),
		QueryCount:   b.QueryCount.Load(),
		QueryMatches: b.QueryMatches.Load(),
	}
	if stats.PutCount > 0 {
		stats.PutAvgNanos = b.PutTotalNanos.Load() / stats.PutCount
	}
	if stats.QueryCount > 0 {
		stats.QueryAvgNanos = b.QueryTotalNanos.Load() / stats.QueryCount
	}
	return stats
}
