package jagged

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    saveCounter   prometheus.Counter
//	    saveHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordSave(duration time.Duration, err error) {
//	    p.saveCounter.Inc()
//	    p.saveHistogram.Observe(duration.Seconds())
//	}
type MetricsCollector interface {
	// RecordFromIter is called after each conversion from generic values.
	// count is the number of top-level values consumed.
	RecordFromIter(count int, duration time.Duration, err error)

	// RecordToBuffers is called after each export. bytes is the total size
	// of the exported buffers.
	RecordToBuffers(bytes int64, duration time.Duration, err error)

	// RecordFromBuffers is called after each reconstruction.
	RecordFromBuffers(duration time.Duration, err error)

	// RecordSave is called after each container write.
	RecordSave(duration time.Duration, err error)

	// RecordLoad is called after each container read.
	RecordLoad(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFromIter(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordToBuffers(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordFromBuffers(time.Duration, error)      {}
func (NoopMetricsCollector) RecordSave(time.Duration, error)             {}
func (NoopMetricsCollector) RecordLoad(time.Duration, error)             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FromIterCount      atomic.Int64
	FromIterValues     atomic.Int64
	FromIterErrors     atomic.Int64
	FromIterTotalNanos atomic.Int64
	ToBuffersCount     atomic.Int64
	ToBuffersBytes     atomic.Int64
	ToBuffersErrors    atomic.Int64
	FromBuffersCount   atomic.Int64
	FromBuffersErrors  atomic.Int64
	SaveCount          atomic.Int64
	SaveErrors         atomic.Int64
	SaveTotalNanos     atomic.Int64
	LoadCount          atomic.Int64
	LoadErrors         atomic.Int64
	LoadTotalNanos     atomic.Int64
}

// RecordFromIter implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFromIter(count int, duration time.Duration, err error) {
	b.FromIterCount.Add(1)
	b.FromIterValues.Add(int64(count))
	b.FromIterTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FromIterErrors.Add(1)
	}
}

// RecordToBuffers implements MetricsCollector.
func (b *BasicMetricsCollector) RecordToBuffers(bytes int64, duration time.Duration, err error) {
	b.ToBuffersCount.Add(1)
	if err != nil {
		b.ToBuffersErrors.Add(1)
		return
	}
	b.ToBuffersBytes.Add(bytes)
}

// RecordFromBuffers implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFromBuffers(duration time.Duration, err error) {
	b.FromBuffersCount.Add(1)
	if err != nil {
		b.FromBuffersErrors.Add(1)
	}
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(duration time.Duration, err error) {
	b.SaveCount.Add(1)
	b.SaveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SaveErrors.Add(1)
	}
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FromIterCount:     b.FromIterCount.Load(),
		FromIterValues:    b.FromIterValues.Load(),
		FromIterErrors:    b.FromIterErrors.Load(),
		ToBuffersCount:    b.ToBuffersCount.Load(),
		ToBuffersBytes:    b.ToBuffersBytes.Load(),
		ToBuffersErrors:   b.ToBuffersErrors.Load(),
		FromBuffersCount:  b.FromBuffersCount.Load(),
		FromBuffersErrors: b.FromBuffersErrors.Load(),
		SaveCount:         b.SaveCount.Load(),
		SaveErrors:        b.SaveErrors.Load(),
		SaveAvgNanos:      avg(b.SaveTotalNanos.Load(), b.SaveCount.Load()),
		LoadCount:         b.LoadCount.Load(),
		LoadErrors:        b.LoadErrors.Load(),
		LoadAvgNanos:      avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FromIterCount     int64
	FromIterValues    int64
	FromIterErrors    int64
	ToBuffersCount    int64
	ToBuffersBytes    int64
	ToBuffersErrors   int64
	FromBuffersCount  int64
	FromBuffersErrors int64
	SaveCount         int64
	SaveErrors        int64
	SaveAvgNanos      int64
	LoadCount         int64
	LoadErrors        int64
	LoadAvgNanos      int64
}
