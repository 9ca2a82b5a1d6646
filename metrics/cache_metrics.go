// Package metrics exposes Prometheus instrumentation for the lookup caches.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type collectors struct {
	hits     *prometheus.CounterVec
	misses   *prometheus.CounterVec
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	hitRatio *prometheus.GaugeVec
}

var (
	registerOnce sync.Once
	shared       *collectors
)

// sharedCollectors lazily registers the metric vectors once per process.
// promauto panics on duplicate registration, so every CacheMetrics instance
// shares the same vectors and differs only by label.
func sharedCollectors() *collectors {
	registerOnce.Do(func() {
		shared = &collectors{
			hits: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "lookup_cache_hits_total",
				Help: "The total number of cache hits",
			}, []string{"cache_type"}),
			misses: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "lookup_cache_misses_total",
				Help: "The total number of cache misses",
			}, []string{"cache_type"}),
			requests: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "lookup_cache_requests_total",
				Help: "The total number of cache requests",
			}, []string{"cache_type"}),
			latency: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "lookup_cache_duration_seconds",
				Help:    "Cache operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			}, []string{"cache_type", "operation"}),
			hitRatio: promauto.NewGaugeVec(prometheus.GaugeOpts{
				Name: "lookup_cache_hit_ratio",
				Help: "Cache hit ratio (hits/total requests)",
			}, []string{"cache_type"}),
		}
	})
	return shared
}

// CacheMetrics tracks hit/miss statistics for one cache. The cacheType label
// distinguishes the geocode cache from the forecast cache.
type CacheMetrics struct {
	cacheType string
	vectors   *collectors

	mu     sync.RWMutex
	hits   int64
	misses int64
}

func NewCacheMetrics(cacheType string) *CacheMetrics {
	return &CacheMetrics{
		cacheType: cacheType,
		vectors:   sharedCollectors(),
	}
}

func (m *CacheMetrics) RecordHit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hits++
	m.vectors.hits.WithLabelValues(m.cacheType).Inc()
	m.vectors.requests.WithLabelValues(m.cacheType).Inc()
	m.publishHitRatio()
}

func (m *CacheMetrics) RecordMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.misses++
	m.vectors.misses.WithLabelValues(m.cacheType).Inc()
	m.vectors.requests.WithLabelValues(m.cacheType).Inc()
	m.publishHitRatio()
}

func (m *CacheMetrics) RecordLatency(operation string, duration float64) {
	m.vectors.latency.WithLabelValues(m.cacheType, operation).Observe(duration)
}

// publishHitRatio must be called with the mutex held.
func (m *CacheMetrics) publishHitRatio() {
	total := m.hits + m.misses
	if total > 0 {
		m.vectors.hitRatio.WithLabelValues(m.cacheType).Set(float64(m.hits) / float64(total))
	}
}

// GetStats returns a point-in-time snapshot of the in-process counters.
func (m *CacheMetrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.hits + m.misses
	var hitRatio float64
	if total > 0 {
		hitRatio = float64(m.hits) / float64(total)
	}

	return map[string]interface{}{
		"cache_type": m.cacheType,
		"hits":       m.hits,
		"misses":     m.misses,
		"total":      total,
		"hit_ratio":  hitRatio,
	}
}
