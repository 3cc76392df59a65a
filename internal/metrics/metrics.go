package metrics

import (
	"sync"
	"time"
)

// Collector accumulates in-process counters for the /metrics endpoint
type Collector struct {
	mu sync.Mutex

	propsKept    int64
	propsDropped int64
	cacheHits    int64
	cacheMisses  int64

	upstreamStatus map[int]int64

	responseCount   int64
	responseTotalMs int64
}

// NewCollector creates a metrics collector
func NewCollector() *Collector {
	return &Collector{
		upstreamStatus: make(map[int]int64),
	}
}

// AddPropsKept records props that survived assembly and capping
func (c *Collector) AddPropsKept(n int) {
	c.mu.Lock()
	c.propsKept += int64(n)
	c.mu.Unlock()
}

// AddPropsDropped records props skipped, deduped, or capped away
func (c *Collector) AddPropsDropped(n int) {
	c.mu.Lock()
	c.propsDropped += int64(n)
	c.mu.Unlock()
}

// CacheHit records an edge-cache hit
func (c *Collector) CacheHit() {
	c.mu.Lock()
	c.cacheHits++
	c.mu.Unlock()
}

// CacheMiss records an edge-cache miss
func (c *Collector) CacheMiss() {
	c.mu.Lock()
	c.cacheMisses++
	c.mu.Unlock()
}

// UpstreamStatus records one upstream response status bucket (0 = network error)
func (c *Collector) UpstreamStatus(status int) {
	c.mu.Lock()
	c.upstreamStatus[status]++
	c.mu.Unlock()
}

// ObserveResponse records one API response duration
func (c *Collector) ObserveResponse(d time.Duration) {
	c.mu.Lock()
	c.responseCount++
	c.responseTotalMs += d.Milliseconds()
	c.mu.Unlock()
}

// Snapshot returns the current counters, optionally zeroing them
func (c *Collector) Snapshot(reset bool) map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	statuses := make(map[int]int64, len(c.upstreamStatus))
	for k, v := range c.upstreamStatus {
		statuses[k] = v
	}

	avgMs := float64(0)
	if c.responseCount > 0 {
		avgMs = float64(c.responseTotalMs) / float64(c.responseCount)
	}

	snap := map[string]interface{}{
		"props_kept":           c.propsKept,
		"props_dropped":        c.propsDropped,
		"cache_hits":           c.cacheHits,
		"cache_misses":         c.cacheMisses,
		"upstream_status":      statuses,
		"responses":            c.responseCount,
		"avg_response_time_ms": avgMs,
	}

	if reset {
		c.propsKept = 0
		c.propsDropped = 0
		c.cacheHits = 0
		c.cacheMisses = 0
		c.upstreamStatus = make(map[int]int64)
		c.responseCount = 0
		c.responseTotalMs = 0
	}

	return snap
}
