package cmd

import (
	"os"
	"sync"
	"time"

	"github.com/mj1618/i3layout/internal/i3"
)

// mcpCacheEntry holds a built plan with the session file's modification
// time and the time it was built.
type mcpCacheEntry struct {
	plan      i3.Plan
	modTime   time.Time
	timestamp time.Time
}

// mcpPlanCache provides a TTL-based cache of plans built from session files.
type mcpPlanCache struct {
	mu      sync.Mutex
	entries map[string]mcpCacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// newMCPPlanCache creates a new cache. A ttl of 0 disables caching.
func newMCPPlanCache(ttl time.Duration) *mcpPlanCache {
	return &mcpPlanCache{
		entries: make(map[string]mcpCacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// plan returns the cached plan of the session at path if it is within TTL
// and the file has not changed since; otherwise it rebuilds it.
func (c *mcpPlanCache) plan(path string) (i3.Plan, error) {
	if c.ttl == 0 {
		return loadPlan(path, nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if entry, ok := c.entries[path]; ok && c.now().Sub(entry.timestamp) < c.ttl && entry.modTime.Equal(info.ModTime()) {
		plan := entry.plan
		c.mu.Unlock()
		return plan, nil
	}
	c.mu.Unlock()

	plan, err := loadPlan(path, nil)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[path] = mcpCacheEntry{plan: plan, modTime: info.ModTime(), timestamp: c.now()}
	c.mu.Unlock()

	return plan, nil
}

// invalidate removes the entry for path.
func (c *mcpPlanCache) invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}

// invalidateAll clears the entire cache.
func (c *mcpPlanCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]mcpCacheEntry)
}
