// Package metrics provides in-memory runtime statistics collection.
package metrics

import (
	"math"
	"sync"
	"time"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64
	TotalTimeMs int64
	AvgTimeMs   float64
	MinTimeMs   int64
	MaxTimeMs   int64
}

// Operation names for the collector.
const (
	OpLLMComplete = "llm_complete"
	OpAnalysis    = "analysis"
	OpGeneration  = "generation"
	OpRefinement  = "refinement"
	OpDBQuery     = "db_query"
)

// Counter names. SchemaFallbacks tracks how often the analyzer downgraded
// to neutral defaults because the model's structured output was unusable;
// the contract tolerates it but it silently degrades report quality, so it
// must stay observable.
const (
	CounterSchemaFallbacks    = "schema_fallbacks"
	CounterExtractionWarnings = "extraction_warnings"
)

// Snapshot represents the full statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64
	LLMComplete   *OperationSnapshot
	Analysis      *OperationSnapshot
	Generation    *OperationSnapshot
	Refinement    *OperationSnapshot
	DBQuery       *OperationSnapshot
	Counters      map[string]int64
}

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
	counters  map[string]int64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
		counters:  make(map[string]int64),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records timing for an operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// Inc increments a named counter by one.
func (c *Collector) Inc(counter string) {
	c.Add(counter, 1)
}

// Add increments a named counter by n.
func (c *Collector) Add(counter string, n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[counter] += n
}

// Counter returns the current value of a named counter.
func (c *Collector) Counter(counter string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counters[counter]
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}
	return &OperationSnapshot{
		Count:       m.Count,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
	}
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	counters := make(map[string]int64, len(c.counters))
	for k, v := range c.counters {
		counters[k] = v
	}

	return Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		LLMComplete:   snapshotOp(c.ops[OpLLMComplete]),
		Analysis:      snapshotOp(c.ops[OpAnalysis]),
		Generation:    snapshotOp(c.ops[OpGeneration]),
		Refinement:    snapshotOp(c.ops[OpRefinement]),
		DBQuery:       snapshotOp(c.ops[OpDBQuery]),
		Counters:      counters,
	}
}
