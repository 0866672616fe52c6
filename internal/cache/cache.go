// Package cache keeps recently built dashboard payloads in memory so repeated
// UI requests inside the TTL window do not hit the upstream data source again.
package cache

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/affistats/insights-manager/internal/entity"
)

const cleanupInterval = time.Minute

type entry struct {
	data      *entity.DashboardData
	expiresAt time.Time
}

// Dashboard is a TTL cache keyed by the rendered query. Safe for concurrent use.
type Dashboard struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

func NewDashboard(ttl time.Duration) *Dashboard {
	c := &Dashboard{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
	go c.cleanup()
	return c
}

// Key renders a query into a stable cache key.
func Key(q entity.AnalyticsQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:%d:%d:%d",
		q.DateRange.From.UnixNano(), q.DateRange.To.UnixNano(), q.Limit, q.Offset)
	if q.OrderBy != nil {
		fmt.Fprintf(&b, ":%s:%s", q.OrderBy.Field, q.OrderBy.Factor)
	}
	if len(q.Filters) > 0 {
		fields := make([]string, 0, len(q.Filters))
		for f := range q.Filters {
			fields = append(fields, f)
		}
		// map order is not stable
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(&b, ":%s=%s", f, q.Filters[f])
		}
	}
	return b.String()
}

func (c *Dashboard) Get(key string) (*entity.DashboardData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

func (c *Dashboard) Set(key string, data *entity.DashboardData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{data: data, expiresAt: time.Now().Add(c.ttl)}
}

// Invalidate drops every entry. Called when the data provider changes.
func (c *Dashboard) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

func (c *Dashboard) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for key, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}
