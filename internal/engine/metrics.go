package engine

import (
	"sort"
	"sync"
	"time"
)

// latencyWindow bounds how many latency samples are kept for the
// avg/median derivation; older samples are overwritten ring-style so a
// long-running session holds a fixed amount of memory.
const latencyWindow = 512

// Metrics accumulates search performance counters. All methods are
// safe for concurrent use. Latency aggregates cover the most recent
// latencyWindow searches; the counters cover the whole session.
type Metrics struct {
	mu        sync.Mutex
	total     int64
	cacheHits int64
	slow      int64
	latencies []time.Duration
	next      int // ring write position once latencies is full
}

// MetricsSnapshot is a point-in-time copy of the accumulated counters.
type MetricsSnapshot struct {
	TotalSearches int64         `json:"total_searches"`
	CacheHits     int64         `json:"cache_hits"`
	CacheHitRate  float64       `json:"cache_hit_rate"`
	SlowSearches  int64         `json:"slow_searches"`
	SlowRate      float64       `json:"slow_rate"`
	AvgLatency    time.Duration `json:"avg_latency"`
	MedianLatency time.Duration `json:"median_latency"`
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Record tallies one completed search.
func (m *Metrics) Record(latency time.Duration, cacheHit, slow bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	if cacheHit {
		m.cacheHits++
	}
	if slow {
		m.slow++
	}
	if len(m.latencies) < latencyWindow {
		m.latencies = append(m.latencies, latency)
	} else {
		m.latencies[m.next] = latency
		m.next = (m.next + 1) % latencyWindow
	}
}

// Snapshot returns a copy of the current counters with derived rates.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MetricsSnapshot{
		TotalSearches: m.total,
		CacheHits:     m.cacheHits,
		SlowSearches:  m.slow,
	}
	if m.total == 0 {
		return snap
	}
	snap.CacheHitRate = float64(m.cacheHits) / float64(m.total)
	snap.SlowRate = float64(m.slow) / float64(m.total)

	var sum time.Duration
	for _, l := range m.latencies {
		sum += l
	}
	snap.AvgLatency = sum / time.Duration(len(m.latencies))

	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	snap.MedianLatency = sorted[len(sorted)/2]
	return snap
}

// Reset drops all accumulated counters.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total = 0
	m.cacheHits = 0
	m.slow = 0
	m.latencies = nil
	m.next = 0
}
