package pathfinding

import (
	"context"
	"sync/atomic"
)

// SearchProfiler captures instrumentation hooks for climbing searches.
type SearchProfiler interface {
	RecordSearch()
	RecordNodeExpanded()
	RecordNeighborGeneration(count int)
}

// SearchMetrics accumulates profiling counters across searches. It is safe
// to share between goroutines generating independent levels.
type SearchMetrics struct {
	searches            atomic.Int64
	nodesExpanded       atomic.Int64
	neighborGenerations atomic.Int64
	neighborCount       atomic.Int64
}

// MetricsSnapshot captures a point-in-time copy of search metrics.
type MetricsSnapshot struct {
	Searches            int64
	NodesExpanded       int64
	NeighborGenerations int64
	NeighborCount       int64
}

// Profiler returns a SearchProfiler backed by this metric set.
func (m *SearchMetrics) Profiler() SearchProfiler {
	if m == nil {
		return nil
	}
	return (*metricsProfiler)(m)
}

// Reset zeroes all counters.
func (m *SearchMetrics) Reset() {
	if m == nil {
		return
	}
	m.searches.Store(0)
	m.nodesExpanded.Store(0)
	m.neighborGenerations.Store(0)
	m.neighborCount.Store(0)
}

// Snapshot captures the current counter values.
func (m *SearchMetrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		Searches:            m.searches.Load(),
		NodesExpanded:       m.nodesExpanded.Load(),
		NeighborGenerations: m.neighborGenerations.Load(),
		NeighborCount:       m.neighborCount.Load(),
	}
}

type metricsProfiler SearchMetrics

func (m *metricsProfiler) RecordSearch() {
	(*SearchMetrics)(m).searches.Add(1)
}

func (m *metricsProfiler) RecordNodeExpanded() {
	(*SearchMetrics)(m).nodesExpanded.Add(1)
}

func (m *metricsProfiler) RecordNeighborGeneration(count int) {
	metrics := (*SearchMetrics)(m)
	metrics.neighborGenerations.Add(1)
	metrics.neighborCount.Add(int64(count))
}

type profilerContextKey struct{}

// ContextWithProfiler returns a context that reports to the provided
// profiler during searches.
func ContextWithProfiler(ctx context.Context, profiler SearchProfiler) context.Context {
	if profiler == nil {
		return ctx
	}
	return context.WithValue(ctx, profilerContextKey{}, profiler)
}

func profilerFromContext(ctx context.Context) SearchProfiler {
	if ctx == nil {
		return nil
	}
	if profiler, ok := ctx.Value(profilerContextKey{}).(SearchProfiler); ok {
		return profiler
	}
	return nil
}
