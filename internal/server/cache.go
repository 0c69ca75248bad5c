package server

import (
	"sync"
	"time"

	"github.com/mj1618/desktop-scenarios/internal/runner"
)

// resultEntry holds a finished run with its timestamp.
type resultEntry struct {
	result    runner.Result
	timestamp time.Time
}

// ResultCache keeps finished run results for a TTL so clients can fetch
// them by run ID after the call that started the run returned.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]resultEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewResultCache creates a new cache. A ttl of 0 disables caching.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		entries: make(map[string]resultEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put records res under its run ID and drops expired entries.
func (c *ResultCache) Put(res runner.Result) {
	if c.ttl == 0 || res.RunID == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.timestamp) >= c.ttl {
			delete(c.entries, k)
		}
	}
	c.entries[res.RunID] = resultEntry{result: res, timestamp: now}
}

// Get returns the result for runID if it is within TTL.
func (c *ResultCache) Get(runID string) (runner.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[runID]
	if !ok || c.now().Sub(e.timestamp) >= c.ttl {
		return runner.Result{}, false
	}
	return e.result, true
}
