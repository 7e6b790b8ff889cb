package outbox

import (
	"sort"
	"sync"
	"time"
)

// MetricsCollector defines the interface for collecting outbox metrics
type MetricsCollector interface {
	RecordEventProcessed(sink, eventType string, success bool, duration time.Duration)
	RecordPublishAttempt(sink, eventType string, attempt int, success bool)
	RecordDropped(eventType string)
}

// NoOpMetricsCollector is a no-op implementation for when metrics aren't needed
type NoOpMetricsCollector struct{}

func (NoOpMetricsCollector) RecordEventProcessed(string, string, bool, time.Duration) {}
func (NoOpMetricsCollector) RecordPublishAttempt(string, string, int, bool)           {}
func (NoOpMetricsCollector) RecordDropped(string)                                     {}

// SinkStats are the counters kept for one sink.
type SinkStats struct {
	Sink      string        `json:"sink"`
	Delivered uint64        `json:"delivered"`
	Failed    uint64        `json:"failed"`
	Retries   uint64        `json:"retries"`
	TotalTime time.Duration `json:"total_time_ns"`
}

// Counters is an in-memory MetricsCollector read by the health endpoint.
type Counters struct {
	mu      sync.Mutex
	sinks   map[string]*SinkStats
	dropped map[string]uint64
}

func NewCounters() *Counters {
	return &Counters{
		sinks:   make(map[string]*SinkStats),
		dropped: make(map[string]uint64),
	}
}

func (c *Counters) stats(sink string) *SinkStats {
	s, ok := c.sinks[sink]
	if !ok {
		s = &SinkStats{Sink: sink}
		c.sinks[sink] = s
	}
	return s
}

func (c *Counters) RecordEventProcessed(sink, _ string, success bool, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats(sink)
	if success {
		s.Delivered++
	} else {
		s.Failed++
	}
	s.TotalTime += duration
}

func (c *Counters) RecordPublishAttempt(sink, _ string, attempt int, _ bool) {
	if attempt <= 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats(sink).Retries++
}

func (c *Counters) RecordDropped(eventType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropped[eventType]++
}

// Snapshot returns per-sink stats sorted by sink name and drop counts by event type.
func (c *Counters) Snapshot() ([]SinkStats, map[string]uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sinks := make([]SinkStats, 0, len(c.sinks))
	for _, s := range c.sinks {
		sinks = append(sinks, *s)
	}
	sort.Slice(sinks, func(i, j int) bool { return sinks[i].Sink < sinks[j].Sink })

	dropped := make(map[string]uint64, len(c.dropped))
	for k, v := range c.dropped {
		dropped[k] = v
	}
	return sinks, dropped
}
